package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rheetham/Student-Record-Management-System/internal/domain/entities"
)

// WriteStudentTable renders students as an aligned table
func WriteStudentTable(w io.Writer, students []entities.Student) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Roll Number\tName\tAge")
	fmt.Fprintln(tw, "-----------\t----\t---")
	for _, s := range students {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", s.RollNumber, s.Name, s.Age)
	}
	return tw.Flush()
}

// WriteStudent renders a single student, one field per line
func WriteStudent(w io.Writer, s entities.Student) {
	fmt.Fprintf(w, "Roll Number: %d\n", s.RollNumber)
	fmt.Fprintf(w, "Name: %s\n", s.Name)
	fmt.Fprintf(w, "Age: %d\n", s.Age)
}
