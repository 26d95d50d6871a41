package grade

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrSemesterNotFound = errors.New("semester not found")
	ErrCourseNotFound   = errors.New("course not found")
)

// Workbook holds the semesters being edited and their cached averages.
// Edits never refresh SGPA or CGPA; call Recompute or RecomputeAll.
type Workbook struct {
	mu        sync.RWMutex
	semesters []Semester
	cgpa      float64
}

// NewWorkbook returns a workbook of n semesters, each holding one blank course.
func NewWorkbook(n int) *Workbook {
	wb := &Workbook{}
	for i := 0; i < n; i++ {
		wb.semesters = append(wb.semesters, blankSemester())
	}
	return wb
}

// LoadWorkbook returns a workbook over copies of semesters. Cached SGPAs are kept as is.
func LoadWorkbook(semesters []Semester) *Workbook {
	wb := &Workbook{semesters: make([]Semester, 0, len(semesters))}
	for _, sem := range semesters {
		if len(sem.Courses) == 0 {
			sem.Courses = []Course{{}}
		}
		wb.semesters = append(wb.semesters, copySemester(sem))
	}
	return wb
}

func blankSemester() Semester {
	return Semester{Courses: []Course{{}}}
}

func copySemester(sem Semester) Semester {
	courses := make([]Course, len(sem.Courses))
	copy(courses, sem.Courses)
	return Semester{Courses: courses, SGPA: sem.SGPA}
}

func (wb *Workbook) checkSemester(i int) error {
	if i < 0 || i >= len(wb.semesters) {
		return ErrSemesterNotFound
	}
	return nil
}

func (wb *Workbook) checkCourse(i, j int) error {
	if err := wb.checkSemester(i); err != nil {
		return err
	}
	if j < 0 || j >= len(wb.semesters[i].Courses) {
		return ErrCourseNotFound
	}
	return nil
}

// AddSemester appends a semester with one blank course and returns its index.
func (wb *Workbook) AddSemester() int {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	wb.semesters = append(wb.semesters, blankSemester())
	return len(wb.semesters) - 1
}

// AddCourse appends a blank course to semester i and returns its index.
func (wb *Workbook) AddCourse(i int) (int, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if err := wb.checkSemester(i); err != nil {
		return 0, err
	}
	wb.semesters[i].Courses = append(wb.semesters[i].Courses, Course{})
	return len(wb.semesters[i].Courses) - 1, nil
}

// RemoveCourse removes course j of semester i. A semester always keeps at least one (blank) course.
func (wb *Workbook) RemoveCourse(i, j int) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if err := wb.checkCourse(i, j); err != nil {
		return err
	}
	courses := wb.semesters[i].Courses
	courses = append(courses[:j:j], courses[j+1:]...)
	if len(courses) == 0 {
		courses = []Course{{}}
	}
	wb.semesters[i].Courses = courses
	return nil
}

// UpdateCourse replaces course j of semester i.
func (wb *Workbook) UpdateCourse(i, j int, c Course) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if err := wb.checkCourse(i, j); err != nil {
		return err
	}
	wb.semesters[i].Courses[j] = c
	return nil
}

// Recompute refreshes the SGPA of semester i, then the CGPA, and returns the new SGPA.
func (wb *Workbook) Recompute(i int) (float64, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if err := wb.checkSemester(i); err != nil {
		return 0, err
	}
	wb.semesters[i].SGPA = SemesterAverage(wb.semesters[i].Courses)
	wb.cgpa = CumulativeAverage(wb.semesters)
	return wb.semesters[i].SGPA, nil
}

// RecomputeAll refreshes every SGPA and the CGPA, and returns the new CGPA.
func (wb *Workbook) RecomputeAll() float64 {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	for i := range wb.semesters {
		wb.semesters[i].SGPA = SemesterAverage(wb.semesters[i].Courses)
	}
	wb.cgpa = CumulativeAverage(wb.semesters)
	return wb.cgpa
}

// CGPA returns the last computed cumulative average.
func (wb *Workbook) CGPA() float64 {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	return wb.cgpa
}

// Semesters returns a copy of the semesters with their cached SGPAs.
func (wb *Workbook) Semesters() []Semester {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	semesters := make([]Semester, 0, len(wb.semesters))
	for _, sem := range wb.semesters {
		semesters = append(semesters, copySemester(sem))
	}
	return semesters
}

// Len returns the number of semesters.
func (wb *Workbook) Len() int {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	return len(wb.semesters)
}
