package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/eventloop"
	"github.com/Veraticus/fintrack/internal/form"
	"github.com/Veraticus/fintrack/internal/i18n"
	"github.com/Veraticus/fintrack/internal/list"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/nav"
	"github.com/Veraticus/fintrack/internal/notify"
	"github.com/Veraticus/fintrack/internal/resource"
	"github.com/Veraticus/fintrack/internal/storage"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/message"
)

// errNotSaved is returned when the backend rejected a submission. The
// reasons have already been printed.
var errNotSaved = errors.New("record was not saved")

// services builds the resource services for the configured backend.
func (s *session) services() (*resource.Service[model.Category], *resource.Service[model.Entry], error) {
	var opts []resource.Option
	if s.cfg.API.CAFile != "" {
		hc, err := httpClientWithCA(s.cfg.API.CAFile)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, resource.WithHTTPClient(hc))
	}
	opts = append(opts,
		resource.WithTimeout(s.cfg.API.Timeout),
		resource.WithRetry(common.RetryOptions{
			MaxAttempts:  s.cfg.API.RetryMaxAttempts,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
		}),
		resource.WithLogger(s.logger),
	)

	client, err := resource.NewClient(s.cfg.API.BaseURL, opts...)
	if err != nil {
		return nil, nil, err
	}
	return resource.NewCategoryService(client), resource.NewEntryService(client), nil
}

// httpClientWithCA trusts the PEM certificates in caFile on top of the
// system roots.
func httpClientWithCA(caFile string) (*http.Client, error) {
	pemData, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read api.ca_file: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pemData) {
		return nil, common.NewUserError(fmt.Sprintf("no certificates found in %s", caFile), common.ErrInvalidConfig)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	return &http.Client{Transport: transport}, nil
}

func (s *session) printer() *message.Printer {
	return i18n.NewPrinter(s.cfg.UI.Locale)
}

func (s *session) console(yes bool) *cli.Console {
	return cli.NewConsole(s.out, s.in, cli.WithAssumeYes(yes), cli.WithConsoleLogger(s.logger))
}

func (s *session) formDeps(n notify.Notifier, history *nav.History) form.Deps {
	return form.Deps{Notifier: n, Navigator: history, Printer: s.printer(), Logger: s.logger}
}

func (s *session) listDeps(n notify.Notifier) list.Deps {
	return list.Deps{Notifier: n, Printer: s.printer(), Logger: s.logger}
}

// initStorage opens the backend database, creating its directory and
// running migrations.
func (s *session) initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	if dir := s.cfg.DatabaseDir(); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.Open(ctx, s.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// formRunner is what the headless commands need from a form controller.
type formRunner interface {
	Init(loc nav.Context) tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	Submit() tea.Cmd
	Set(name, value string) error
	State() form.State
	ID() int
	Fields() *form.FieldSet
	ServerMessages() []string
	Printer() *message.Printer
}

// openForm activates a form at path and waits for its loads.
func openForm(f formRunner, path string) error {
	eventloop.Drive(f.Update, f.Init(nav.Parse(path)))
	switch f.State() {
	case form.StateNew, form.StateEditing:
		return nil
	default:
		return common.NewUserError(fmt.Sprintf("%s is not available", path), nil)
	}
}

// submitForm applies values as user edits and submits the form.
func submitForm(f formRunner, values map[string]string) error {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if err := f.Set(name, values[name]); err != nil {
			return err
		}
	}

	cmd := f.Submit()
	if cmd == nil {
		return invalidFields(f)
	}
	eventloop.Drive(f.Update, cmd)

	if f.State() == form.StateFailed {
		return common.NewUserError(strings.Join(f.ServerMessages(), "; "), errNotSaved)
	}
	return nil
}

func invalidFields(f formRunner) error {
	p := f.Printer()
	var problems []string
	for _, spec := range f.Fields().Schema().Visible() {
		for _, fe := range f.Fields().Errors(spec.Name) {
			problems = append(problems, spec.Name+" "+fe.Message(p))
		}
	}
	if len(problems) == 0 {
		return common.NewUserError("invalid input", errNotSaved)
	}
	return common.NewUserError("invalid input: "+strings.Join(problems, "; "), errNotSaved)
}

// changedValues collects the flags the user actually set.
func changedValues(changed func(string) bool, values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for name, v := range values {
		if changed(name) {
			out[name] = v
		}
	}
	return out
}

func parseIDArg(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("invalid id %q", arg), err)
	}
	return id, nil
}

// loadList fetches a collection through a list controller.
func loadList[E model.Record](ctx context.Context, svc list.Service[E], deps list.Deps) (*list.Controller[E], error) {
	ctrl := list.New(ctx, svc, deps)
	eventloop.Drive(ctrl.Update, ctrl.Init())
	if !ctrl.Loaded() {
		return nil, common.NewUserError(deps.Printer.Sprintf(i18n.MsgListLoadFailed), nil)
	}
	return ctrl, nil
}

// tally forwards notifications and counts the failures among them.
type tally struct {
	notify.Notifier
	failures int
}

func (t *tally) Error(message string) {
	t.failures++
	t.Notifier.Error(message)
}

func (t *tally) Alert(message string) {
	t.failures++
	t.Notifier.Alert(message)
}

// deleteByID deletes the record with id through the list controller, asking
// for confirmation first. It reports whether the record was deleted.
func deleteByID[E model.Record](ctrl *list.Controller[E], id int) (bool, error) {
	var target *E
	for _, r := range ctrl.Records() {
		if rid, ok := (*r).RecordID(); ok && rid == id {
			target = r
			break
		}
	}
	if target == nil {
		return false, common.NewUserError(fmt.Sprintf("no record with id %d", id), common.ErrNotFound)
	}

	before := len(ctrl.Records())
	eventloop.Drive(ctrl.Update, ctrl.Delete(target))
	return len(ctrl.Records()) < before, nil
}
