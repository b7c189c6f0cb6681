// Package console implements the interactive menu-driven record session.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"roster/internal/records/models"
	dErrors "roster/pkg/domain-errors"
)

// CancelKeyword aborts any prompt and returns to the menu.
const CancelKeyword = "cancel"

// Console messages.
const (
	MsgCanceled      = "Operation canceled. Returning to menu"
	MsgNoRecords     = "No records available."
	MsgNoneFound     = "No records found."
	MsgEnterNumber   = "Please enter a valid number."
	MsgInvalidChoice = "Invalid choice. Please select an option from 1 to 5."
	MsgGoodbye       = "Goodbye!"
)

// Service is the record API the console drives.
type Service interface {
	Create(ctx context.Context, p models.Person) error
	Update(ctx context.Context, n int, p models.Person) error
	Delete(ctx context.Context, n int) error
	List(ctx context.Context) ([]models.Record, error)
	Count(ctx context.Context) (int, error)
}

// errCanceled is returned by prompts when the user types the cancel keyword.
var errCanceled = errors.New("canceled")

// Console reads commands from in and writes results to out.
type Console struct {
	in      *bufio.Reader
	out     io.Writer
	service Service
	styles  Styles
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(c *Console)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// WithClock overrides the clock used to validate dates of birth.
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		c.now = now
	}
}

// New constructs a Console.
func New(in io.Reader, out io.Writer, service Service, opts ...Option) *Console {
	c := &Console{
		in:      bufio.NewReader(in),
		out:     out,
		service: service,
		styles:  NewStyles(lipgloss.NewRenderer(out)),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run shows the menu until the user exits, input ends, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printMenu()
		choice, err := c.readLine(c.styles.Prompt.Render("Enter your choice: "))
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			c.list(ctx)
		case "2":
			err = c.create(ctx)
		case "3":
			err = c.delete(ctx)
		case "4":
			err = c.update(ctx)
		case "5":
			c.println(c.styles.Muted.Render(MsgGoodbye))
			return nil
		default:
			c.println(c.styles.Error.Render(MsgInvalidChoice))
		}

		switch {
		case errors.Is(err, errCanceled):
			c.println(c.styles.Muted.Render(MsgCanceled))
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
	}
}

func (c *Console) printMenu() {
	c.println("")
	c.println(c.styles.Title.Render("Record Management"))
	for _, item := range []string{
		"1. List records",
		"2. Create a record",
		"3. Delete a record",
		"4. Update a record",
		"5. Exit",
	} {
		c.println(c.styles.Menu.Render(item))
	}
}

func (c *Console) list(ctx context.Context) {
	records, err := c.service.List(ctx)
	if err != nil {
		c.reportError(ctx, "list", err)
		return
	}
	if len(records) == 0 {
		c.println(c.styles.Muted.Render(MsgNoneFound))
		return
	}
	c.println(c.styles.Title.Render("Current Records in File:"))
	for _, r := range records {
		c.println(c.styles.Record.Render(FormatRecord(r)))
	}
}

func (c *Console) create(ctx context.Context) error {
	p, err := c.readPerson()
	if err != nil {
		return err
	}
	if err := c.service.Create(ctx, p); err != nil {
		c.reportError(ctx, "create", err)
		return nil
	}
	c.println(c.styles.Success.Render("Record successfully created!"))
	return nil
}

func (c *Console) delete(ctx context.Context) error {
	c.list(ctx)
	n, err := c.readRecordNumber(ctx, "Enter the record number to delete: ")
	if err != nil || n == 0 {
		return err
	}
	if err := c.service.Delete(ctx, n); err != nil {
		c.reportError(ctx, "delete", err)
		return nil
	}
	c.println(c.styles.Success.Render("Record successfully deleted!"))
	return nil
}

func (c *Console) update(ctx context.Context) error {
	c.list(ctx)
	n, err := c.readRecordNumber(ctx, "Enter the record number to update: ")
	if err != nil || n == 0 {
		return err
	}
	p, err := c.readPerson()
	if err != nil {
		return err
	}
	if err := c.service.Update(ctx, n, p); err != nil {
		c.reportError(ctx, "update", err)
		return nil
	}
	c.println(c.styles.Success.Render("Record successfully updated!"))
	return nil
}

func (c *Console) readPerson() (models.Person, error) {
	first, err := c.readName("Enter first name: ")
	if err != nil {
		return models.Person{}, err
	}
	last, err := c.readName("Enter last name: ")
	if err != nil {
		return models.Person{}, err
	}
	dob, err := c.readDateOfBirth("Enter date of birth (YYYY-MM-DD): ")
	if err != nil {
		return models.Person{}, err
	}
	return models.Person{FirstName: first, LastName: last, DateOfBirth: dob}, nil
}

// readName prompts until the trimmed input is a valid name.
func (c *Console) readName(prompt string) (string, error) {
	for {
		value, err := c.prompt(prompt)
		if err != nil {
			return "", err
		}
		if err := models.ValidateName(value); err != nil {
			c.println(c.styles.Error.Render(err.Error()))
			continue
		}
		return value, nil
	}
}

// readDateOfBirth prompts until the trimmed input is a valid date of birth.
func (c *Console) readDateOfBirth(prompt string) (string, error) {
	for {
		value, err := c.prompt(prompt)
		if err != nil {
			return "", err
		}
		if err := models.ValidateDateOfBirth(value, c.now()); err != nil {
			c.println(c.styles.Error.Render(err.Error()))
			continue
		}
		return value, nil
	}
}

// readRecordNumber prompts for a 1-based position within the current record
// count. It returns 0 without prompting when there are no records.
func (c *Console) readRecordNumber(ctx context.Context, prompt string) (int, error) {
	count, err := c.service.Count(ctx)
	if err != nil {
		c.reportError(ctx, "count", err)
		return 0, nil
	}
	if count == 0 {
		c.println(c.styles.Error.Render(MsgNoRecords))
		return 0, nil
	}
	for {
		value, err := c.prompt(prompt)
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(value)
		if convErr != nil {
			c.println(c.styles.Error.Render(MsgEnterNumber))
			continue
		}
		if n < 1 || n > count {
			c.println(c.styles.Error.Render(fmt.Sprintf(
				"Invalid record number. Please enter a record number between 1 and %d.", count)))
			continue
		}
		return n, nil
	}
}

// prompt reads one trimmed line and maps the cancel keyword to errCanceled.
func (c *Console) prompt(prompt string) (string, error) {
	line, err := c.readLine(c.styles.Prompt.Render(prompt))
	if err != nil {
		return "", err
	}
	value := strings.TrimSpace(line)
	if strings.EqualFold(value, CancelKeyword) {
		return "", errCanceled
	}
	return value, nil
}

func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) reportError(ctx context.Context, operation string, err error) {
	c.logger.DebugContext(ctx, "console operation failed",
		"operation", operation,
		"code", dErrors.CodeOf(err),
		"error", err,
	)
	c.println(c.styles.Error.Render(err.Error()))
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

// FormatRecord renders one listing line.
func FormatRecord(r models.Record) string {
	return fmt.Sprintf("%d. %s %s, Date of Birth: %s", r.Index, r.FirstName, r.LastName, r.DateOfBirth)
}
