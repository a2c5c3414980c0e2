package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agilstore/core/internal/application/services"
	"github.com/agilstore/core/internal/domain/entities"
	"github.com/agilstore/core/internal/domain/validation"
	"github.com/agilstore/core/internal/infrastructure/logger"
	"github.com/agilstore/core/internal/ports"
)

// App is the interactive menu loop
type App struct {
	service ports.InventoryService
	console *Console
	prices  *PriceFormatter
	logger  *logger.Logger
}

// NewApp creates the menu loop over the given streams
func NewApp(service ports.InventoryService, in io.Reader, out io.Writer, prices *PriceFormatter, log *logger.Logger) *App {
	if log == nil {
		log = logger.NewNop()
	}
	return &App{
		service: service,
		console: NewConsole(in, out),
		prices:  prices,
		logger:  log.WithComponent("cli"),
	}
}

// Run loads the inventory and serves the menu until the user exits or input
// ends. Only persistence failures are returned.
func (a *App) Run(ctx context.Context) error {
	if err := a.service.Load(ctx); err != nil {
		return err
	}

	for {
		a.showMenu()
		opt := a.console.Ask("Escolha uma opção: ")
		if opt == "" && a.console.Closed() {
			if err := a.console.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			opt = "0"
		}

		var err error
		switch opt {
		case "1":
			err = a.addProduct(ctx)
		case "2":
			a.listProducts(ctx)
		case "3":
			err = a.updateProduct(ctx)
		case "4":
			err = a.deleteProduct(ctx)
		case "5":
			a.searchProduct(ctx)
		case "0":
			a.console.Println("Encerrando aplicação. Até logo!")
			return nil
		default:
			a.console.Println("Opção inválida. Tente novamente.")
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) showMenu() {
	a.console.Rule()
	a.console.Println("Bem-vindos à AgilStore")
	a.console.Rule()
	a.console.Println("[1] Adicionar Produto")
	a.console.Println("[2] Listar Produtos")
	a.console.Println("[3] Atualizar Produto")
	a.console.Println("[4] Excluir Produto")
	a.console.Println("[5] Buscar Produto")
	a.console.Println("[0] Sair")
	a.console.Rule()
}

func (a *App) addProduct(ctx context.Context) error {
	a.console.Println("\n=== Adicionar Produto ===")

	var req ports.CreateProductRequest
	ok := collectFields(a.console, []field{
		textField("Nome do Produto: ", "Nome inválido. Operação cancelada.", &req.Name),
		textField("Categoria: ", "Categoria inválida. Operação cancelada.", &req.Category),
		intField("Quantidade em Estoque (inteiro >= 0): ", "Quantidade inválida. Operação cancelada.", &req.Quantity),
		realField("Preço (>= 0, use ',' para decimais se preferir): ", "Preço inválido. Operação cancelada.", &req.Price),
	})
	if !ok {
		return nil
	}

	product, err := a.service.AddProduct(ctx, req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidProduct) {
			a.console.Println("Produto inválido. Operação cancelada.")
			return nil
		}
		return err
	}

	a.console.Printf("Produto adicionado com sucesso (ID: %d).\n", product.ID)
	return nil
}

func (a *App) listProducts(ctx context.Context) {
	a.console.Println("\n=== Listar Produtos ===")

	filter := ports.ListFilter{
		Category: a.console.Ask("Filtrar por categoria (deixe vazio para não filtrar): "),
		SortBy:   parseSortField(a.console.Ask("Ordenar por (nome|quantidade|preco) ou vazio para nenhum: ")),
	}

	renderTable(a.console, a.prices, a.service.ListProducts(ctx, filter))
}

// parseSortField maps the menu vocabulary to a sort field; unknown keys mean no sorting
func parseSortField(input string) entities.SortField {
	switch strings.ToLower(input) {
	case "nome":
		return entities.SortName
	case "quantidade":
		return entities.SortQuantity
	case "preco", "preço":
		return entities.SortPrice
	}
	return entities.SortNone
}

// lookup prompts for an id and resolves it, printing the failure when there is one
func (a *App) lookup(ctx context.Context, prompt string) (*entities.Product, bool) {
	id, ok := validation.ParseNonNegativeInt(a.console.Ask(prompt))
	if !ok {
		a.console.Println("ID inválido.")
		return nil, false
	}
	product, err := a.service.GetProduct(ctx, id)
	if err != nil {
		a.console.Println("Produto não encontrado.")
		return nil, false
	}
	return product, true
}

func (a *App) updateProduct(ctx context.Context) error {
	a.console.Println("\n=== Atualizar Produto ===")

	product, ok := a.lookup(ctx, "Informe o ID do produto: ")
	if !ok {
		return nil
	}
	renderSummary(a.console, a.prices, "Produto atual:", *product)

	var (
		name, category string
		quantity       int
		price          float64
		req            ports.UpdateProductRequest
	)
	keep := func(f field, set func()) field {
		apply := f.apply
		f.apply = func(input string) bool {
			if !apply(input) {
				return false
			}
			set()
			return true
		}
		return f
	}
	collectOptionalFields(a.console, []optionalField{
		{"Atualizar Nome? (s/N): ", keep(textField("Novo Nome: ", "Nome inválido. Mantendo o anterior.", &name), func() { req.Name = &name })},
		{"Atualizar Categoria? (s/N): ", keep(textField("Nova Categoria: ", "Categoria inválida. Mantendo a anterior.", &category), func() { req.Category = &category })},
		{"Atualizar Quantidade? (s/N): ", keep(intField("Nova Quantidade (inteiro >= 0): ", "Quantidade inválida. Mantendo a anterior.", &quantity), func() { req.Quantity = &quantity })},
		{"Atualizar Preço? (s/N): ", keep(realField("Novo Preço (>= 0): ", "Preço inválido. Mantendo o anterior.", &price), func() { req.Price = &price })},
	})

	result, err := a.service.UpdateProduct(ctx, product.ID, req)
	if err != nil {
		if services.IsNotFound(err) {
			a.console.Println("Produto não encontrado.")
			return nil
		}
		return err
	}

	a.logger.Debugw("Update applied", "product_id", product.ID, "changed", result.Changed)
	a.console.Println("Produto atualizado com sucesso.")
	return nil
}

func (a *App) deleteProduct(ctx context.Context) error {
	a.console.Println("\n=== Excluir Produto ===")

	product, ok := a.lookup(ctx, "Informe o ID do produto: ")
	if !ok {
		return nil
	}
	renderSummary(a.console, a.prices, "Produto selecionado:", *product)

	if !validation.IsAffirmative(a.console.Ask("Confirmar exclusão? (s/N): ")) {
		a.console.Println("Operação cancelada.")
		return nil
	}

	if err := a.service.DeleteProduct(ctx, product.ID); err != nil {
		return fmt.Errorf("delete product %d: %w", product.ID, err)
	}
	a.console.Println("Produto excluído com sucesso.")
	return nil
}

func (a *App) searchProduct(ctx context.Context) {
	a.console.Println("\n=== Buscar Produto ===")

	switch strings.ToLower(a.console.Ask("Buscar por (id|nome): ")) {
	case "id":
		id, ok := validation.ParseNonNegativeInt(a.console.Ask("Informe o ID: "))
		if !ok {
			a.console.Println("ID inválido.")
			return
		}
		product, err := a.service.GetProduct(ctx, id)
		if err != nil {
			a.console.Println("Nenhum produto encontrado com esse ID.")
			return
		}
		renderDetail(a.console, a.prices, *product)
	case "nome":
		results := a.service.SearchByName(ctx, a.console.Ask("Parte do nome do produto: "))
		if len(results) == 0 {
			a.console.Println("Nenhum produto encontrado com esse critério.")
			return
		}
		renderTable(a.console, a.prices, results)
	default:
		a.console.Println(`Opção inválida. Use "id" ou "nome".`)
	}
}
