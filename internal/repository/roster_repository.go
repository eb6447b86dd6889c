package repository

import (
	"strings"
	"sync"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

// DefaultStudentIDStart is the first identifier handed out by a fresh roster.
const DefaultStudentIDStart = 10000

// RosterRepository owns the in-memory set of students. Callers always receive copies; mutation
// goes through Update so it is serialised by the write lock.
type RosterRepository struct {
	mu       sync.RWMutex
	students []*models.Student
	index    map[int]int
	nextID   int
	revision uint64
}

// NewRosterRepository builds an empty roster whose generated ids start at idStart.
func NewRosterRepository(idStart int) *RosterRepository {
	if idStart <= 0 {
		idStart = DefaultStudentIDStart
	}
	return &RosterRepository{index: make(map[int]int), nextID: idStart}
}

// Insert stores a new student under a freshly generated id and returns the stored copy.
func (r *RosterRepository) Insert(student models.Student) models.Student {
	r.mu.Lock()
	defer r.mu.Unlock()
	student.ID = r.generateID()
	stored := r.appendLocked(student)
	r.revision++
	return stored
}

// Import appends externally built records. Ids are kept when free, otherwise regenerated.
func (r *RosterRepository) Import(students []models.Student) []models.Student {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.importLocked(students)
	r.revision++
	return stored
}

// Replace swaps the entire roster for the provided records.
func (r *RosterRepository) Replace(students []models.Student) []models.Student {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students = nil
	r.index = make(map[int]int, len(students))
	stored := r.importLocked(students)
	r.revision++
	return stored
}

// FindByID returns the student with the given id.
func (r *RosterRepository) FindByID(id int) (models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pos, ok := r.index[id]
	if !ok {
		return models.Student{}, ErrNotFound
	}
	return r.students[pos].Clone(), nil
}

// FindByName matches names case-insensitively and returns the first student in roster order.
func (r *RosterRepository) FindByName(name string) (models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, student := range r.students {
		if strings.EqualFold(student.Name, name) {
			return student.Clone(), nil
		}
	}
	return models.Student{}, ErrNotFound
}

// List returns copies of every student in insertion order.
func (r *RosterRepository) List() []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]models.Student, 0, len(r.students))
	for _, student := range r.students {
		list = append(list, student.Clone())
	}
	return list
}

// Len reports the roster size.
func (r *RosterRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.students)
}

// Update applies fn to the stored student under the write lock. The id cannot be changed.
func (r *RosterRepository) Update(id int, fn func(student *models.Student) error) (models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.index[id]
	if !ok {
		return models.Student{}, ErrNotFound
	}
	working := r.students[pos].Clone()
	if err := fn(&working); err != nil {
		return models.Student{}, err
	}
	working.ID = id
	r.students[pos] = &working
	r.revision++
	return working.Clone(), nil
}

// Revision increases on every mutation.
func (r *RosterRepository) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

func (r *RosterRepository) importLocked(students []models.Student) []models.Student {
	stored := make([]models.Student, 0, len(students))
	for _, student := range students {
		if _, taken := r.index[student.ID]; taken || student.ID <= 0 {
			student.ID = r.generateID()
		}
		stored = append(stored, r.appendLocked(student))
	}
	return stored
}

func (r *RosterRepository) appendLocked(student models.Student) models.Student {
	record := student.Clone()
	normaliseGrades(&record)
	r.index[record.ID] = len(r.students)
	r.students = append(r.students, &record)
	return record.Clone()
}

func (r *RosterRepository) generateID() int {
	for {
		id := r.nextID
		r.nextID++
		if _, taken := r.index[id]; !taken {
			return id
		}
	}
}

// normaliseGrades guarantees every recognised category key and drops unknown ones.
func normaliseGrades(student *models.Student) {
	grades := models.EmptyGrades()
	for category, scores := range student.Grades {
		if _, ok := grades[category]; ok {
			grades[category] = append(grades[category], scores...)
		}
	}
	student.Grades = grades
}
