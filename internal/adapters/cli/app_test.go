package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/agilstore/core/internal/adapters/repository"
	"github.com/agilstore/core/internal/application/services"
	"github.com/agilstore/core/internal/domain/entities"
	"github.com/agilstore/core/internal/ports"
)

type session struct {
	store ports.DocumentStore
	path  string
}

func newSession(t *testing.T) *session {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "products.json")
	return &session{store: repository.NewJSONStore(path, nil, nil), path: path}
}

// run drives one program execution with the given input lines
func (s *session) run(t *testing.T, lines ...string) string {
	t.Helper()
	svc := services.NewInventoryService(s.store, language.BrazilianPortuguese, nil, nil)
	var out bytes.Buffer
	app := NewApp(svc, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, NewPriceFormatter("pt-BR", "BRL"), nil)
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func (s *session) document(t *testing.T) *entities.Document {
	t.Helper()
	doc, err := s.store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q:\n%s", w, out)
		}
	}
}

func TestAddProductFlow(t *testing.T) {
	s := newSession(t)
	out := s.run(t, "1", "Mouse Gamer", "Periféricos", "10", "129,90", "0")
	assertContains(t, out, "Produto adicionado com sucesso (ID: 1).", "Encerrando aplicação. Até logo!")

	doc := s.document(t)
	if doc.NextID != 2 || len(doc.Products) != 1 {
		t.Fatalf("unexpected document %+v", doc)
	}
	want := entities.Product{ID: 1, Name: "Mouse Gamer", Category: "Periféricos", Quantity: 10, Price: 129.9}
	if doc.Products[0] != want {
		t.Fatalf("expected %+v, got %+v", want, doc.Products[0])
	}
}

func TestAddProductAbortsOnFirstInvalidField(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		msg   string
	}{
		{"empty name", []string{"1", "", "0"}, "Nome inválido. Operação cancelada."},
		{"blank category", []string{"1", "Mouse", "   ", "0"}, "Categoria inválida. Operação cancelada."},
		{"negative quantity", []string{"1", "Mouse", "c", "-1", "0"}, "Quantidade inválida. Operação cancelada."},
		{"text price", []string{"1", "Mouse", "c", "1", "caro", "0"}, "Preço inválido. Operação cancelada."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)
			out := s.run(t, tt.input...)
			assertContains(t, out, tt.msg)
			doc := s.document(t)
			if len(doc.Products) != 0 || doc.NextID != 1 {
				t.Fatalf("document changed: %+v", doc)
			}
		})
	}
}

func TestListWithFilterAndSort(t *testing.T) {
	s := newSession(t)
	s.run(t,
		"1", "Cabo", "Acessórios", "1", "30",
		"1", "Mouse", "periféricos", "2", "10",
		"1", "Teclado", "Periféricos", "3", "20",
		"0",
	)
	out := s.run(t, "2", "PERIFÉRICOS", "preco", "0")
	assertContains(t, out, "ID", "Nome do Produto", "Preço")
	if strings.Contains(out, "Cabo") {
		t.Fatalf("filter leaked other categories:\n%s", out)
	}
	if strings.Index(out, "Mouse") > strings.Index(out, "Teclado") {
		t.Fatalf("expected Mouse before Teclado:\n%s", out)
	}

	empty := s.run(t, "2", "Inexistente", "", "0")
	assertContains(t, empty, "Nenhum produto para exibir.")
}

func TestUpdateKeepsPreviousValueOnInvalidField(t *testing.T) {
	s := newSession(t)
	s.run(t, "1", "Mouse", "Periféricos", "5", "50", "0")

	out := s.run(t,
		"3", "1",
		"s", "Mouse Sem Fio",
		"n",
		"s", "abc",
		"s", "75.5",
		"0",
	)
	assertContains(t, out, "Produto atual:", "Quantidade inválida. Mantendo a anterior.", "Produto atualizado com sucesso.")

	got := s.document(t).Products[0]
	want := entities.Product{ID: 1, Name: "Mouse Sem Fio", Category: "Periféricos", Quantity: 5, Price: 75.5}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestUpdateProductStoredWithInvalidFields(t *testing.T) {
	s := newSession(t)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	seed := `{"nextId":3,"products":[` +
		`{"id":1,"name":"A","category":"c","quantity":-5,"price":1},` +
		`{"id":2,"name":"B","category":"c","quantity":1,"price":2}]}`
	if err := os.WriteFile(s.path, []byte(seed), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out := s.run(t,
		"3", "1",
		"s", "Novo",
		"n", "n", "n",
		"5", "id", "2",
		"0",
	)
	assertContains(t, out, "Produto atualizado com sucesso.", "Detalhes do Produto", "Encerrando aplicação. Até logo!")

	got := s.document(t).Products[0]
	if got.Name != "Novo" || got.Quantity != -5 {
		t.Fatalf("expected only the name to change, got %+v", got)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s := newSession(t)
	s.run(t, "1", "Mouse", "c", "1", "1", "0")
	before := s.document(t)

	out := s.run(t, "3", "99", "0")
	assertContains(t, out, "Produto não encontrado.")
	out = s.run(t, "3", "abc", "0")
	assertContains(t, out, "ID inválido.")

	after := s.document(t)
	if after.NextID != before.NextID || after.Products[0] != before.Products[0] {
		t.Fatalf("document changed: %+v", after)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	s := newSession(t)
	s.run(t, "1", "Mouse", "c", "1", "1", "1", "Teclado", "c", "1", "1", "0")

	out := s.run(t, "4", "1", "n", "0")
	assertContains(t, out, "Produto selecionado:", "Operação cancelada.")
	if len(s.document(t).Products) != 2 {
		t.Fatalf("product removed without confirmation")
	}

	out = s.run(t, "4", "1", "S", "0")
	assertContains(t, out, "Produto excluído com sucesso.")
	doc := s.document(t)
	if len(doc.Products) != 1 || doc.Products[0].ID != 2 || doc.NextID != 3 {
		t.Fatalf("unexpected document %+v", doc)
	}

	out = s.run(t, "4", "1", "0")
	assertContains(t, out, "Produto não encontrado.")
}

func TestSearch(t *testing.T) {
	s := newSession(t)
	s.run(t, "1", "Mouse Gamer", "Periféricos", "1", "1234,5", "0")

	out := s.run(t, "5", "nome", "mouse", "0")
	assertContains(t, out, "Mouse Gamer")

	out = s.run(t, "5", "nome", "xyz", "0")
	assertContains(t, out, "Nenhum produto encontrado com esse critério.")

	out = s.run(t, "5", "ID", "1", "0")
	assertContains(t, out, "Detalhes do Produto", "Nome: Mouse Gamer", "Quantidade: 1", "R$")

	out = s.run(t, "5", "id", "7", "0")
	assertContains(t, out, "Nenhum produto encontrado com esse ID.")

	out = s.run(t, "5", "categoria", "0")
	assertContains(t, out, `Opção inválida. Use "id" ou "nome".`)
}

func TestInvalidMenuOptionAndEndOfInput(t *testing.T) {
	s := newSession(t)
	svc := services.NewInventoryService(s.store, language.BrazilianPortuguese, nil, nil)
	var out bytes.Buffer
	app := NewApp(svc, strings.NewReader("9\n1\nMouse\n"), &out, NewPriceFormatter("pt-BR", "BRL"), nil)
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertContains(t, out.String(), "Opção inválida. Tente novamente.", "Categoria inválida. Operação cancelada.", "Encerrando aplicação. Até logo!")
	if len(s.document(t).Products) != 0 {
		t.Fatalf("truncated add must not store anything")
	}
}

func TestParseSortField(t *testing.T) {
	cases := map[string]entities.SortField{
		"nome":       entities.SortName,
		"NOME":       entities.SortName,
		"quantidade": entities.SortQuantity,
		"preco":      entities.SortPrice,
		"preço":      entities.SortPrice,
		"":           entities.SortNone,
		"cor":        entities.SortNone,
	}
	for in, want := range cases {
		if got := parseSortField(in); got != want {
			t.Fatalf("parseSortField(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLongInputLines(t *testing.T) {
	s := newSession(t)
	name := strings.Repeat("x", 100*1024)
	s.run(t, "1", name, "Cabos", "1", "2", "0")
	if got := s.document(t).Products[0].Name; got != name {
		t.Fatalf("expected a %d byte name, got %d bytes", len(name), len(got))
	}

	svc := services.NewInventoryService(s.store, language.BrazilianPortuguese, nil, nil)
	var out bytes.Buffer
	in := strings.NewReader(strings.Repeat("1", MaxLineSize+1) + "\n0\n")
	app := NewApp(svc, in, &out, NewPriceFormatter("pt-BR", "BRL"), nil)
	err := app.Run(context.Background())
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
	if strings.Contains(out.String(), "Encerrando aplicação") {
		t.Fatalf("a read error must not look like a normal exit")
	}
}
