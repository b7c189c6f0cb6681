package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roster/internal/records/models"
	"roster/internal/records/service"
	"roster/internal/records/store/memory"
	"roster/pkg/testutil"
)

var (
	john = models.Person{FirstName: "John", LastName: "Doe", DateOfBirth: "1990-01-01"}
	jane = models.Person{FirstName: "Jane", LastName: "Smith", DateOfBirth: "1985-05-15"}
)

func fixedNow() time.Time {
	return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
}

// session runs a console over the given input lines and returns its output
// and the records left in the store.
func session(t *testing.T, input []string, seed ...models.Person) (string, []models.Record) {
	t.Helper()
	svc := service.New(memory.NewInMemory(seed...))
	var out bytes.Buffer
	c := New(strings.NewReader(strings.Join(input, "\n")+"\n"), &out, svc, WithClock(fixedNow))

	require.NoError(t, c.Run(context.Background()))

	records, err := svc.List(context.Background())
	require.NoError(t, err)
	return out.String(), records
}

func TestList(t *testing.T) {
	testutil.Given(t, "two stored records", func(t *testing.T) {
		testutil.When(t, "the user lists and exits", func(t *testing.T) {
			out, _ := session(t, []string{"1", "5"}, john, jane)

			testutil.Then(t, "each record is printed with its number", func(t *testing.T) {
				assert.Contains(t, out, "1. John Doe, Date of Birth: 1990-01-01")
				assert.Contains(t, out, "2. Jane Smith, Date of Birth: 1985-05-15")
				assert.Contains(t, out, MsgGoodbye)
			})
		})
	})

	t.Run("empty store", func(t *testing.T) {
		out, _ := session(t, []string{"1", "5"})
		assert.Contains(t, out, MsgNoneFound)
	})
}

func TestCreate(t *testing.T) {
	t.Run("re-prompts until each field is valid", func(t *testing.T) {
		out, records := session(t, []string{
			"2",
			"John123", " Joey ",
			"",
			"Tribbiani",
			"invalid-date", "2030-01-01", " 1968-01-09 ",
			"5",
		})

		assert.Contains(t, out, models.MsgNameAlpha)
		assert.Contains(t, out, models.MsgNameEmpty)
		assert.Contains(t, out, models.MsgDateFormat)
		assert.Contains(t, out, models.MsgDateInFuture)
		assert.Contains(t, out, "Record successfully created!")
		require.Len(t, records, 1)
		assert.Equal(t, models.Person{FirstName: "Joey", LastName: "Tribbiani", DateOfBirth: "1968-01-09"}, records[0].Person)
	})

	t.Run("cancel returns to the menu without writing", func(t *testing.T) {
		out, records := session(t, []string{"2", "John", "  CANCEL  ", "5"})

		assert.Contains(t, out, MsgCanceled)
		assert.Empty(t, records)
	})
}

func TestDelete(t *testing.T) {
	t.Run("out of range re-prompts with bounds", func(t *testing.T) {
		out, records := session(t, []string{"3", "5", "abc", "1", "5"}, john, jane)

		assert.Contains(t, out, "Invalid record number. Please enter a record number between 1 and 2.")
		assert.Contains(t, out, MsgEnterNumber)
		assert.Contains(t, out, "Record successfully deleted!")
		assert.Equal(t, []models.Record{{Index: 1, Person: jane}}, records)
	})

	t.Run("no records", func(t *testing.T) {
		out, _ := session(t, []string{"3", "5"})
		assert.Contains(t, out, MsgNoRecords)
	})

	t.Run("cancel at the number prompt", func(t *testing.T) {
		out, records := session(t, []string{"3", "cancel", "5"}, john)
		assert.Contains(t, out, MsgCanceled)
		assert.Len(t, records, 1)
	})
}

func TestUpdate(t *testing.T) {
	out, records := session(t, []string{"4", "2", "Emily", "Brown", "2000-07-20", "5"}, john, jane)

	assert.Contains(t, out, "Record successfully updated!")
	assert.Equal(t, []models.Record{
		{Index: 1, Person: john},
		{Index: 2, Person: models.Person{FirstName: "Emily", LastName: "Brown", DateOfBirth: "2000-07-20"}},
	}, records)
}

func TestMenu(t *testing.T) {
	t.Run("unknown choice", func(t *testing.T) {
		out, _ := session(t, []string{"9", "5"})
		assert.Contains(t, out, MsgInvalidChoice)
	})

	t.Run("end of input exits cleanly", func(t *testing.T) {
		out, _ := session(t, []string{"1"})
		assert.Contains(t, out, "Record Management")
	})

	t.Run("end of input mid prompt exits cleanly", func(t *testing.T) {
		_, records := session(t, []string{"2", "John"})
		assert.Empty(t, records)
	})

	t.Run("canceled context stops the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := New(strings.NewReader("1\n"), &bytes.Buffer{}, service.New(memory.NewInMemory()))
		assert.ErrorIs(t, c.Run(ctx), context.Canceled)
	})
}

func TestFormatRecord(t *testing.T) {
	assert.Equal(t, "3. Jane Smith, Date of Birth: 1985-05-15", FormatRecord(models.Record{Index: 3, Person: jane}))
}
