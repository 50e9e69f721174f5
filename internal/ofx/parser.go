// Package ofx turns OFX/QFX statements into entry drafts.
package ofx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// ErrNoTransactions is returned when a statement holds no transactions.
var ErrNoTransactions = errors.New("no transactions in OFX file")

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

var namePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// Draft is an entry built from one statement transaction, plus the
// statement identifiers it came from.
type Draft struct {
	FITID   string
	Account string
	Entry   model.Entry
}

// Parser reads OFX/QFX files.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// preprocess fixes formatting issues banks commonly ship in SGML files.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile returns one draft per bank and credit card transaction, in
// statement order. Drafts carry no category; the caller assigns one.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Draft, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var drafts []Draft
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			drafts = append(drafts, p.convert(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			drafts = append(drafts, p.convert(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))...)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, ErrNoTransactions
	}

	p.logger.Info("Parsed OFX file", "drafts", len(drafts))
	return drafts, nil
}

func (p *Parser) convert(txns []ofxgo.Transaction, account string) []Draft {
	drafts := make([]Draft, 0, len(txns))
	for _, tx := range txns {
		amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(8))
		if err != nil {
			p.logger.Warn("Skipping transaction with unreadable amount", "fitid", tx.FiTID, "error", err)
			continue
		}
		drafts = append(drafts, Draft{
			FITID:   string(tx.FiTID),
			Account: account,
			Entry:   toEntry(tx, amount),
		})
	}
	return drafts
}

// toEntry maps a transaction onto an unsaved entry. Debits become
// expenses; the amount is always stored unsigned.
func toEntry(tx ofxgo.Transaction, amount decimal.Decimal) model.Entry {
	typ := model.EntryTypeRevenue
	if amount.IsNegative() {
		typ = model.EntryTypeExpense
	}

	posted := tx.DtPosted.Time
	entry := model.Entry{
		Name:   entryName(tx),
		Type:   typ,
		Amount: amount.Abs(),
		Date:   model.NewDate(posted.Year(), posted.Month(), posted.Day()),
		Paid:   true,
	}
	if memo := strings.TrimSpace(string(tx.Memo)); memo != "" {
		entry.Description = &memo
	}
	return entry
}

// entryName picks a readable name: the payee when present, otherwise the
// cleaned NAME field.
func entryName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && strings.TrimSpace(string(tx.Payee.Name)) != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}

	for _, prefix := range namePrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// "MM/DD " date stamps
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	if len([]rune(name)) < 2 {
		name = tx.TrnType.String() + " " + string(tx.FiTID)
	}
	return name
}

// Accounts lists the distinct account ids in the file.
func (p *Parser) Accounts(reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			accounts = append(accounts, id)
		}
	}
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(string(stmt.BankAcctFrom.AcctID))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(string(stmt.CCAcctFrom.AcctID))
		}
	}
	return accounts, nil
}
