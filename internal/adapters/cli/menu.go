package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rheetham/Student-Record-Management-System/internal/domain/entities"
	"github.com/rheetham/Student-Record-Management-System/internal/infrastructure/logger"
	"github.com/rheetham/Student-Record-Management-System/internal/ports"
)

var errNotANumber = errors.New("please enter a whole number")

const menuText = `
--- Student Record Management System ---
1. Create new student entry
2. View all students
3. Search student details by roll number
4. Update student by roll number
5. Delete student by roll number
6. Exit
`

// Menu choices
const (
	choiceCreate = iota + 1
	choiceView
	choiceSearch
	choiceUpdate
	choiceDelete
	choiceExit
)

// Menu drives the interactive numbered menu over a line-oriented reader
type Menu struct {
	service ports.StudentService
	in      *bufio.Reader
	lines   chan inputLine
	out     io.Writer
	logger  *logger.Logger
}

type inputLine struct {
	text string
	err  error
}

// NewMenu creates a new interactive menu
func NewMenu(service ports.StudentService, in io.Reader, out io.Writer, logger *logger.Logger) *Menu {
	return &Menu{
		service: service,
		in:      bufio.NewReader(in),
		out:     out,
		logger:  logger.WithComponent("menu"),
	}
}

// Run shows the menu until the user exits, the input ends or ctx is done.
// Operation errors are reported to the user and never end the loop.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(m.out, menuText)
		line, err := m.prompt(ctx, "Enter your choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(m.out, "Exiting program.")
				return nil
			}
			return err
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			choice = 0
		}
		if choice == choiceExit {
			fmt.Fprintln(m.out, "Exiting program.")
			return nil
		}

		err = m.dispatch(ctx, choice)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			fmt.Fprintln(m.out)
			fmt.Fprintln(m.out, "Exiting program.")
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			m.logger.WithError(err).Debugw("Menu action failed", "choice", choice)
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func (m *Menu) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case choiceCreate:
		return m.create(ctx)
	case choiceView:
		return m.view(ctx)
	case choiceSearch:
		return m.search(ctx)
	case choiceUpdate:
		return m.update(ctx)
	case choiceDelete:
		return m.delete(ctx)
	default:
		fmt.Fprintln(m.out, "Invalid choice. Please try again.")
		return nil
	}
}

func (m *Menu) create(ctx context.Context) error {
	roll, err := m.promptInt(ctx, "Enter roll number: ")
	if err != nil {
		return err
	}

	// Reported before asking for the remaining fields
	exists, err := m.service.Exists(ctx, roll)
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintf(m.out, "Error: A student with roll number %d already exists.\n", roll)
		return nil
	}

	name, err := m.prompt(ctx, "Enter name: ")
	if err != nil {
		return err
	}
	age, err := m.promptInt(ctx, "Enter age: ")
	if err != nil {
		return err
	}

	if _, err := m.service.CreateStudent(ctx, ports.CreateStudentRequest{
		RollNumber: roll,
		Name:       name,
		Age:        age,
	}); err != nil {
		return err
	}

	fmt.Fprintln(m.out, "Student record created successfully.")
	return nil
}

func (m *Menu) view(ctx context.Context) error {
	students, err := m.service.ListStudents(ctx)
	if err != nil {
		return err
	}
	if len(students) == 0 {
		fmt.Fprintln(m.out, "No student records found.")
		return nil
	}
	return WriteStudentTable(m.out, students)
}

func (m *Menu) search(ctx context.Context) error {
	roll, err := m.promptInt(ctx, "Enter roll number to search: ")
	if err != nil {
		return err
	}

	student, err := m.service.GetStudent(ctx, roll)
	if errors.Is(err, entities.ErrStudentNotFound) {
		m.notFound(roll)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "Student Found:")
	WriteStudent(m.out, *student)
	return nil
}

func (m *Menu) update(ctx context.Context) error {
	roll, err := m.promptInt(ctx, "Enter roll number of student to update: ")
	if err != nil {
		return err
	}

	current, err := m.service.GetStudent(ctx, roll)
	if errors.Is(err, entities.ErrStudentNotFound) {
		m.notFound(roll)
		return nil
	}
	if err != nil {
		return err
	}

	newRoll, err := m.promptInt(ctx, fmt.Sprintf("Enter new roll number (current: %d): ", current.RollNumber))
	if err != nil {
		return err
	}
	exists, err := m.service.Exists(ctx, newRoll, current.RollNumber)
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintf(m.out, "Error: Another student with roll number %d already exists.\n", newRoll)
		return nil
	}

	newName, err := m.prompt(ctx, fmt.Sprintf("Enter new name (current: %s): ", current.Name))
	if err != nil {
		return err
	}
	newAge, err := m.promptInt(ctx, fmt.Sprintf("Enter new age (current: %d): ", current.Age))
	if err != nil {
		return err
	}

	_, err = m.service.UpdateStudent(ctx, roll, ports.UpdateStudentRequest{
		RollNumber: newRoll,
		Name:       newName,
		Age:        newAge,
	})
	if errors.Is(err, entities.ErrStudentNotFound) {
		m.notFound(roll)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "Student record updated successfully.")
	return nil
}

func (m *Menu) delete(ctx context.Context) error {
	roll, err := m.promptInt(ctx, "Enter roll number of student to delete: ")
	if err != nil {
		return err
	}

	err = m.service.DeleteStudent(ctx, roll)
	if errors.Is(err, entities.ErrStudentNotFound) {
		m.notFound(roll)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "Student record deleted successfully.")
	return nil
}

func (m *Menu) notFound(roll int) {
	fmt.Fprintf(m.out, "Student with roll number %d not found.\n", roll)
}

// prompt writes label and returns the next input line without its line
// ending. io.EOF is returned once the input is exhausted and ctx.Err() as
// soon as ctx is done, even while the read is still pending.
func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(m.out, label)
	if m.lines == nil {
		m.lines = make(chan inputLine)
		go m.readLines()
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			return "", io.EOF
		}
		if line.err != nil {
			return "", fmt.Errorf("read input: %w", line.err)
		}
		return strings.TrimSpace(line.text), nil
	}
}

// readLines feeds m.lines until the input ends. A pending read cannot be
// interrupted, so the goroutine outlives a cancelled Run until the reader
// returns.
func (m *Menu) readLines() {
	defer close(m.lines)
	for {
		text, err := m.in.ReadString('\n')
		if text != "" {
			m.lines <- inputLine{text: text}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				m.lines <- inputLine{err: err}
			}
			return
		}
	}
}

func (m *Menu) promptInt(ctx context.Context, label string) (int, error) {
	line, err := m.prompt(ctx, label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", line, errNotANumber)
	}
	return n, nil
}
