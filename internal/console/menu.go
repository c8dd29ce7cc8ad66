package console

import (
	"context"
	"errors"
	"strconv"
	"time"

	"contas/internal/core"
	applog "contas/internal/log"
	"contas/internal/services"
	"contas/internal/sheets"

	"github.com/google/uuid"
)

// Menu is the interactive front end of the ledger.
type Menu struct {
	prompt   *Prompter
	ledger   *services.LedgerService
	summary  *services.SummaryService
	reports  sheets.ReportWriter
	currency string
	now      func() time.Time
}

func NewMenu(prompt *Prompter, ledger *services.LedgerService, summary *services.SummaryService, reports sheets.ReportWriter, currency string) *Menu {
	return &Menu{
		prompt:   prompt,
		ledger:   ledger,
		summary:  summary,
		reports:  reports,
		currency: currency,
		now:      time.Now,
	}
}

func (m *Menu) today() core.Date {
	return core.Today(m.now())
}

// Run shows the main menu until the user exits or the input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.prompt.Println("\n=== Main Menu ===")
		m.prompt.Println("1. Add Entry")
		m.prompt.Println("2. List Entries")
		m.prompt.Println("3. Mark Payable as Paid")
		m.prompt.Println("4. Mark Receivable as Received")
		m.prompt.Println("5. Search by ID")
		m.prompt.Println("6. Summary")
		m.prompt.Println("7. Export Report")
		m.prompt.Println("8. Exit")

		answer, err := m.prompt.Ask("Choose an option: ", "Invalid input! Type a number.", isNumber)
		if err != nil {
			return closedIsExit(err)
		}

		option, _ := strconv.Atoi(answer)
		switch option {
		case 1:
			err = m.addEntry(ctx)
		case 2:
			err = m.listEntries(ctx)
		case 3:
			err = m.settle(ctx, services.PendingPayables)
		case 4:
			err = m.settle(ctx, services.PendingReceivables)
		case 5:
			err = m.searchByID(ctx)
		case 6:
			err = m.showSummary(ctx)
		case 7:
			err = m.exportReport(ctx)
		case 8:
			m.prompt.Println("Shutting down...")
			return nil
		default:
			m.prompt.Println("Invalid option")
		}
		if err != nil {
			return closedIsExit(err)
		}
	}
}

func (m *Menu) addEntry(ctx context.Context) error {
	m.prompt.Println("\n=== New Entry ===")

	description, err := m.prompt.Ask("Description: ", "Description can't be empty or longer than 200 characters", func(s string) bool {
		return s != "" && len([]rune(s)) <= 200
	})
	if err != nil {
		return err
	}

	amountText, err := m.prompt.Ask("Amount (ex 150.50): ", "Invalid amount", func(s string) bool {
		_, err := core.ParseAmount(s)
		return err == nil
	})
	if err != nil {
		return err
	}
	amount, _ := core.ParseAmount(amountText)

	dueText, err := m.prompt.Ask("Due Date (YYYY-MM-DD): ", "Invalid date", func(s string) bool {
		_, err := core.ParseDate(s)
		return err == nil
	})
	if err != nil {
		return err
	}
	dueDate, _ := core.ParseDate(dueText)

	kindText, err := m.prompt.Ask("Type (1 - Pay, 2 - Receive): ", "Invalid option! Type 1 or 2.", func(s string) bool {
		return s == "1" || s == "2"
	})
	if err != nil {
		return err
	}
	kind := core.Payable
	if kindText == "2" {
		kind = core.Receivable
	}

	e, err := m.ledger.Create(ctx, description, amount, dueDate, kind)
	if err != nil {
		m.prompt.Printf("Could not create entry: %v\n", err)
		return nil
	}
	m.prompt.Printf("Entry created with ID %s\n", e.ID)
	return nil
}

func (m *Menu) listEntries(ctx context.Context) error {
	m.prompt.Println("\n=== All Entries ===")

	headings := map[services.View]string{
		services.PendingPayables:    "\n--- Payables ---\nPending:",
		services.SettledPayables:    "\nPaid:",
		services.PendingReceivables: "\n--- Receivables ---\nPending:",
		services.SettledReceivables: "\nReceived:",
	}
	today := m.today()
	for _, v := range services.Views {
		nv, err := m.ledger.Number(ctx, v)
		if err != nil {
			m.prompt.Printf("Could not list %s: %v\n", v, err)
			return nil
		}
		m.prompt.Println(headings[v])
		m.printNumbered(nv, today)
	}
	return nil
}

func (m *Menu) printNumbered(nv services.NumberedView, today core.Date) {
	if nv.Empty() {
		m.prompt.Println("No entries found.")
		return
	}
	for _, item := range nv.Items {
		m.prompt.Println(FormatEntryLine(item.Number, item.Entry, today, m.currency))
	}
}

// settle lets the user pick a number from the pending view v.
func (m *Menu) settle(ctx context.Context, v services.View) error {
	noun, done := "payable", "paid"
	if v.Kind == core.Receivable {
		noun, done = "receivable", "received"
	}

	m.prompt.Printf("\n=== Mark %s as %s ===\n", capitalize(noun), capitalize(done))
	nv, err := m.ledger.Number(ctx, v)
	if err != nil {
		m.prompt.Printf("Could not list %ss: %v\n", noun, err)
		return nil
	}
	if nv.Empty() {
		m.prompt.Printf("No pending %ss.\n", noun)
		return nil
	}

	m.prompt.Printf("Pending %ss:\n", capitalize(noun))
	m.printNumbered(nv, m.today())

	answer, err := m.prompt.Ask("\nType the "+noun+" NUMBER to mark as "+done+": ", "Invalid number", func(s string) bool {
		n, err := strconv.Atoi(s)
		return err == nil && nv.Contains(n)
	})
	if err != nil {
		return err
	}
	n, _ := strconv.Atoi(answer)

	if _, err := m.ledger.Settle(ctx, services.ByNumber(nv, n)); err != nil {
		switch {
		case errors.Is(err, core.ErrStaleView):
			m.prompt.Println("The list changed in the meantime, please try again.")
		case errors.Is(err, core.ErrAlreadySettled):
			m.prompt.Printf("That %s is already %s.\n", noun, done)
		default:
			m.prompt.Printf("Could not mark %s as %s: %v\n", noun, done, err)
		}
		return nil
	}
	m.prompt.Printf("%s marked as %s successfully!\n", capitalize(noun), done)
	return nil
}

func (m *Menu) searchByID(ctx context.Context) error {
	m.prompt.Println("\n=== Search by ID ===")
	answer, err := m.prompt.Ask("Type entry ID: ", "Invalid ID", func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	})
	if err != nil {
		return err
	}
	id := uuid.MustParse(answer)

	e, err := m.ledger.Get(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		m.prompt.Println("Entry not found!")
		return nil
	}
	if err != nil {
		m.prompt.Printf("Could not read entry: %v\n", err)
		return nil
	}

	m.prompt.Println("\n=== Entry Found ===")
	m.prompt.Printf("%s", FormatEntryDetails(e, m.today(), m.currency))
	return nil
}

func (m *Menu) showSummary(ctx context.Context) error {
	r, err := m.summary.GenerateReport(ctx, m.today())
	if err != nil {
		m.prompt.Printf("Could not build summary: %v\n", err)
		return nil
	}
	m.prompt.Println()
	m.prompt.Printf("%s", FormatReport(r, m.currency))
	return nil
}

func (m *Menu) exportReport(ctx context.Context) error {
	if m.reports == nil {
		m.prompt.Println("Report export is not configured.")
		return nil
	}

	r, err := m.summary.GenerateReport(ctx, m.today())
	if err != nil {
		m.prompt.Printf("Could not build summary: %v\n", err)
		return nil
	}
	entries, err := m.ledger.List(ctx)
	if err != nil {
		m.prompt.Printf("Could not list entries: %v\n", err)
		return nil
	}

	ref, err := m.reports.WriteReport(ctx, r, entries)
	if err != nil {
		applog.FromContext(ctx).WithComponent(applog.ComponentConsole).ErrorContext(ctx, "Report export failed",
			applog.FieldOperation, applog.OpExport,
			applog.FieldError, err)
		m.prompt.Printf("Could not export report: %v\n", err)
		return nil
	}
	m.prompt.Printf("Report exported to %s\n", ref)
	return nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// closedIsExit treats the end of input as a normal exit.
func closedIsExit(err error) error {
	if errors.Is(err, ErrInputClosed) {
		return nil
	}
	return err
}
