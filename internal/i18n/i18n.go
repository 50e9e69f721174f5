// Package i18n holds the user-facing message catalog.
//
// Messages are keyed by their English text. Other locales register
// translations in init; unknown keys fall back to the English key.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys.
const (
	TitleNewCategory  = "New category"
	TitleEditCategory = "Editing category: %s"
	TitleNewEntry     = "New entry"
	TitleEditEntry    = "Editing entry: %s"
	TitleCategories   = "Categories"
	TitleEntries      = "Entries"

	MsgRequestSucceeded = "Request processed successfully"
	MsgRequestFailed    = "An error occurred while processing your request!"
	MsgServerFailure    = "Server communication failed. Please try again later"
	MsgLoadFailed       = "A server error occurred, please try again later"
	MsgListLoadFailed   = "Error loading the list"
	MsgDeleteFailed     = "Error while trying to delete"
	MsgConfirmDelete    = "Do you really want to delete this item?"
	MsgCategoriesFailed = "Could not load categories"

	ErrRequired = "is required"
	ErrMinLen   = "must be at least %s characters"
	ErrDecimal  = "must be a decimal number"
	ErrDate     = "must be a date (YYYY-MM-DD)"
	ErrOneOf    = "must be one of: %s"
	ErrNumber   = "must be a number"
	ErrBoolean  = "must be true or false"
	ErrInvalid  = "is invalid"

	LabelID          = "ID"
	LabelName        = "Name"
	LabelDescription = "Description"
	LabelType        = "Type"
	LabelAmount      = "Amount"
	LabelDate        = "Date"
	LabelPaid        = "Paid"
	LabelPending     = "Pending"
	LabelCategory    = "Category"
	LabelYes         = "Yes"
	LabelNo          = "No"

	TypeExpense = "Expense"
	TypeRevenue = "Revenue"
)

// BrazilianPortuguese is the locale the original tracker shipped with.
var BrazilianPortuguese = language.BrazilianPortuguese

var supported = []language.Tag{language.English, language.BrazilianPortuguese}

var matcher = language.NewMatcher(supported)

func init() {
	pt := language.BrazilianPortuguese
	set := func(key, msg string) {
		_ = message.SetString(pt, key, msg)
	}

	set(TitleNewCategory, "Cadastro de Nova Categoria")
	set(TitleEditCategory, "Editando Categoria: %s")
	set(TitleNewEntry, "Cadastro de Novo Lançamento")
	set(TitleEditEntry, "Editando Lançamento: %s")
	set(TitleCategories, "Categorias")
	set(TitleEntries, "Lançamentos")

	set(MsgRequestSucceeded, "Solicitação processada com sucesso")
	set(MsgRequestFailed, "Ocorreu um erro ao processar a sua solicitação!")
	set(MsgServerFailure, "Falha na comunicação com o servidor. Por favor tente mais tarde")
	set(MsgLoadFailed, "Ocorreu um erro no servidor, tente mais tarde")
	set(MsgListLoadFailed, "Erro ao carregar a lista")
	set(MsgDeleteFailed, "Erro ao tentar excluir")
	set(MsgConfirmDelete, "Deseja realmente excluir esse item?")
	set(MsgCategoriesFailed, "Não foi possível carregar as categorias")

	set(ErrRequired, "é obrigatório")
	set(ErrMinLen, "deve ter no mínimo %s caracteres")
	set(ErrDecimal, "deve ser um número decimal")
	set(ErrDate, "deve ser uma data (AAAA-MM-DD)")
	set(ErrOneOf, "deve ser um de: %s")
	set(ErrNumber, "deve ser um número")
	set(ErrBoolean, "deve ser verdadeiro ou falso")
	set(ErrInvalid, "é inválido")

	set(LabelName, "Nome")
	set(LabelDescription, "Descrição")
	set(LabelType, "Tipo")
	set(LabelAmount, "Valor")
	set(LabelDate, "Data")
	set(LabelPaid, "Pago")
	set(LabelPending, "Pendente")
	set(LabelCategory, "Categoria")
	set(LabelYes, "Sim")
	set(LabelNo, "Não")

	set(TypeExpense, "Despesa")
	set(TypeRevenue, "Receita")
}

// Match picks the closest supported locale for a BCP 47 string such as
// "pt-BR" or "en_US". Unknown or empty input yields English.
func Match(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}

// NewPrinter returns a printer for the given locale string.
func NewPrinter(locale string) *message.Printer {
	return message.NewPrinter(Match(locale))
}
