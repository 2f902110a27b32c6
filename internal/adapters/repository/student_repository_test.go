package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rheetham/Student-Record-Management-System/internal/domain/entities"
)

func newTestRepository(t *testing.T) (*FileStudentRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "students.csv")
	return &FileStudentRepository{path: path}, path
}

func TestFileStudentRepository_LoadMissingFile(t *testing.T) {
	repo, _ := newTestRepository(t)

	students, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestFileStudentRepository_Load(t *testing.T) {
	repo, path := newTestRepository(t)
	content := "3,Carol,21\n\n1,Alice,20\r\n   \n2, Bob ,22\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	students, err := repo.Load(context.Background())
	require.NoError(t, err)

	// file order is preserved, names are kept verbatim
	assert.Equal(t, []entities.Student{
		{RollNumber: 3, Name: "Carol", Age: 21},
		{RollNumber: 1, Name: "Alice", Age: 20},
		{RollNumber: 2, Name: " Bob ", Age: 22},
	}, students)
}

func TestFileStudentRepository_LoadMalformed(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine int
	}{
		{name: "non numeric roll", content: "x,Alice,20\n", wantLine: 1},
		{name: "non numeric age", content: "1,Alice,20\n2,Bob,old\n", wantLine: 2},
		{name: "empty age", content: "1,Alice,\n", wantLine: 1},
		{name: "missing field", content: "1,Alice\n", wantLine: 1},
		{name: "embedded comma", content: "\n1,Doe, John,20\n", wantLine: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, path := newTestRepository(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := repo.Load(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, entities.ErrParse))

			var perr *entities.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.wantLine, perr.Line)
			assert.Equal(t, path, perr.Path)
		})
	}
}

func TestFileStudentRepository_Save(t *testing.T) {
	repo, path := newTestRepository(t)
	ctx := context.Background()

	input := []entities.Student{
		{RollNumber: 2, Name: "Bob", Age: 22},
		{RollNumber: 1, Name: "Alice", Age: 20},
	}
	require.NoError(t, repo.Save(ctx, input))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Alice,20\n2,Bob,22\n", string(data))

	// caller's slice is left untouched
	assert.Equal(t, 2, input[0].RollNumber)

	require.NoError(t, repo.Save(ctx, input[:1]))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2,Bob,22\n", string(data))
}

func TestFileStudentRepository_SaveEmpty(t *testing.T) {
	repo, path := newTestRepository(t)
	require.NoError(t, os.WriteFile(path, []byte("1,Alice,20\n"), 0o644))

	require.NoError(t, repo.Save(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileStudentRepository_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "class", "students.csv")
	repo := &FileStudentRepository{path: path}

	require.NoError(t, repo.Save(context.Background(), []entities.Student{{RollNumber: 1, Name: "A", Age: 9}}))
	assert.FileExists(t, path)
}

func TestFileStudentRepository_SaveLoadRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	var input []entities.Student
	for i, roll := range []int{42, -3, 7, 0, 1000, 15} {
		input = append(input, entities.Student{
			RollNumber: roll,
			Name:       "Student " + strconv.Itoa(roll),
			Age:        18 + i,
		})
	}
	require.NoError(t, repo.Save(ctx, input))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, input, loaded)
	for i := 1; i < len(loaded); i++ {
		assert.Less(t, loaded[i-1].RollNumber, loaded[i].RollNumber)
	}

	// saving what was loaded rewrites identical bytes
	before, err := os.ReadFile(repo.path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, loaded))
	after, err := os.ReadFile(repo.path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFileStudentRepository_CancelledContext(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Save(ctx, nil), context.Canceled)
}

func TestFileStudentRepository_LongLines(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	// well past bufio.Scanner's default 64 KiB token size
	input := []entities.Student{
		{RollNumber: 1, Name: strings.Repeat("a", 70000), Age: 20},
		{RollNumber: 2, Name: "Bob", Age: 22},
	}
	require.NoError(t, repo.Save(ctx, input))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, input, loaded)
}

func TestFileStudentRepository_LoadWithoutTrailingNewline(t *testing.T) {
	repo, path := newTestRepository(t)
	require.NoError(t, os.WriteFile(path, []byte("1,Alice,20\n2,Bob,22"), 0o644))

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.Student{
		{RollNumber: 1, Name: "Alice", Age: 20},
		{RollNumber: 2, Name: "Bob", Age: 22},
	}, loaded)
}
