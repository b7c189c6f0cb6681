package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"roster/internal/records/models"
	dErrors "roster/pkg/domain-errors"
	"roster/pkg/platform/sentinel"
)

const header = "First Name,Last Name,Date of Birth\n"

type StoreSuite struct {
	suite.Suite
	ctx  context.Context
	path string
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "students.csv")
}

func (s *StoreSuite) writeFile(content string) {
	s.Require().NoError(os.WriteFile(s.path, []byte(content), 0o644))
}

func (s *StoreSuite) readFile() string {
	data, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	return string(data)
}

func (s *StoreSuite) TestOpen() {
	s.Run("creates a missing file with only the header", func() {
		nested := filepath.Join(s.T().TempDir(), "data", "people.csv")
		st, err := Open(nested)
		s.Require().NoError(err)
		s.Equal(nested, st.Path())

		data, err := os.ReadFile(nested)
		s.Require().NoError(err)
		s.Equal(header, string(data))
	})

	s.Run("leaves an existing file untouched", func() {
		s.writeFile(header + "John,Doe,1990-01-01\n")
		_, err := Open(s.path)
		s.Require().NoError(err)
		s.Equal(header+"John,Doe,1990-01-01\n", s.readFile())
	})
}

func (s *StoreSuite) TestReadAll() {
	s.Run("numbers valid rows and skips malformed ones", func() {
		s.writeFile(header + "John,Doe,1990-01-01\nonly,two\nJane,Smith,1985-05-15\n")
		st, err := Open(s.path)
		s.Require().NoError(err)

		got, err := st.ReadAll(s.ctx)
		s.Require().NoError(err)
		want := []models.Record{
			{Index: 1, Person: models.Person{FirstName: "John", LastName: "Doe", DateOfBirth: "1990-01-01"}},
			{Index: 2, Person: models.Person{FirstName: "Jane", LastName: "Smith", DateOfBirth: "1985-05-15"}},
		}
		s.Empty(cmp.Diff(want, got))
	})

	s.Run("strict mode rejects malformed rows", func() {
		s.writeFile(header + "John,Doe,1990-01-01\nonly,two\n")
		st, err := Open(s.path, WithStrictRows(true))
		s.Require().NoError(err)

		_, err = st.ReadAll(s.ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeCorrupt))
	})

	s.Run("header only is an empty list", func() {
		s.writeFile(header)
		st, err := Open(s.path)
		s.Require().NoError(err)

		got, err := st.ReadAll(s.ctx)
		s.Require().NoError(err)
		s.NotNil(got)
		s.Empty(got)
	})

	s.Run("missing file reports not found", func() {
		st, err := Open(s.path)
		s.Require().NoError(err)
		s.Require().NoError(os.Remove(s.path))

		got, err := st.ReadAll(s.ctx)
		s.Require().Error(err)
		s.Empty(got)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.True(errors.Is(err, sentinel.ErrNotFound))
		s.Equal("The file '"+s.path+"' does not exist.", err.Error())
	})
}

func (s *StoreSuite) TestWriteAll() {
	st, err := Open(s.path)
	s.Require().NoError(err)

	records := []models.Record{
		{Person: models.Person{FirstName: "Jane", LastName: "Smith", DateOfBirth: "1985-05-15"}},
		{Person: models.Person{FirstName: "O,Brien", LastName: "Doe", DateOfBirth: "1990-01-01"}},
	}
	s.Require().NoError(st.WriteAll(s.ctx, records))
	s.Equal(header+"Jane,Smith,1985-05-15\n\"O,Brien\",Doe,1990-01-01\n", s.readFile())

	got, err := st.ReadAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("O,Brien", got[1].FirstName)

	s.Require().NoError(st.WriteAll(s.ctx, nil))
	s.Equal(header, s.readFile())
}

func (s *StoreSuite) TestAppend() {
	jane := models.Person{FirstName: "Jane", LastName: "Smith", DateOfBirth: "1985-05-15"}

	s.Run("appends after the existing rows", func() {
		s.writeFile(header + "John,Doe,1990-01-01\n")
		st, err := Open(s.path)
		s.Require().NoError(err)

		s.Require().NoError(st.Append(s.ctx, jane))
		s.Equal(header+"John,Doe,1990-01-01\nJane,Smith,1985-05-15\n", s.readFile())
	})

	s.Run("starts a new line when the file lacks a final newline", func() {
		s.writeFile(header + "John,Doe,1990-01-01")
		st, err := Open(s.path)
		s.Require().NoError(err)

		s.Require().NoError(st.Append(s.ctx, jane))
		s.Equal(header+"John,Doe,1990-01-01\nJane,Smith,1985-05-15\n", s.readFile())

		got, err := st.ReadAll(s.ctx)
		s.Require().NoError(err)
		want := []models.Record{
			{Index: 1, Person: models.Person{FirstName: "John", LastName: "Doe", DateOfBirth: "1990-01-01"}},
			{Index: 2, Person: jane},
		}
		s.Empty(cmp.Diff(want, got))
	})

	s.Run("missing file reports not found", func() {
		st, err := Open(s.path)
		s.Require().NoError(err)
		s.Require().NoError(os.Remove(s.path))

		err = st.Append(s.ctx, jane)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.NoFileExists(s.path)
	})

	s.Run("writes a header into an empty file", func() {
		s.writeFile("")
		st := &Store{path: s.path}

		s.Require().NoError(st.Append(s.ctx, jane))
		s.Equal(header+"Jane,Smith,1985-05-15\n", s.readFile())
	})

	s.Run("refuses a file with a duplicated header", func() {
		content := header + header + "John,Doe,1990-01-01\n"
		s.writeFile(content)
		st, err := Open(s.path)
		s.Require().NoError(err)

		err = st.Append(s.ctx, jane)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeCorrupt))
		s.Equal(content, s.readFile())
	})
}

func TestCanceledContext(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "students.csv"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = st.ReadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, st.WriteAll(ctx, nil), context.Canceled)
}
