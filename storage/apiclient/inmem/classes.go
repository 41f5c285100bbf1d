package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/findtutor/core/classes"
)

type classRepository struct {
	db *DB
}

var _ classes.Repository = (*classRepository)(nil)

func NewClassRepository(db *DB) *classRepository {
	return &classRepository{db: db}
}

func (repo *classRepository) QueryClassesByTeacher(ctx context.Context, teacherID int) ([]classes.Class, error) {
	tbl := repo.db.classes
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	cls := make([]classes.Class, 0, len(tbl.t))
	for _, c := range tbl.t {
		if c.TeacherID == teacherID {
			cls = append(cls, *c)
		}
	}
	sort.Slice(cls, func(i, j int) bool { return cls[i].ID < cls[j].ID })
	return cls, nil
}

func (repo *classRepository) GetClassByID(ctx context.Context, id int) (classes.Class, error) {
	tbl := repo.db.classes
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	if c, ok := tbl.t[id]; ok {
		return *c, nil
	}
	return classes.Class{}, classes.ErrNotFound
}

func (repo *classRepository) CreateClass(ctx context.Context, c classes.Class) (classes.Class, error) {
	tbl := repo.db.classes
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	tbl.pk++
	c.ID = tbl.pk
	tbl.t[c.ID] = &c
	return c, nil
}

func (repo *classRepository) UpdateClass(ctx context.Context, c classes.Class) (classes.Class, error) {
	tbl := repo.db.classes
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if _, ok := tbl.t[c.ID]; !ok {
		return classes.Class{}, classes.ErrNotFound
	}
	tbl.t[c.ID] = &c
	return c, nil
}

func (repo *classRepository) DeleteClass(ctx context.Context, id int) error {
	tbl := repo.db.classes
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if _, ok := tbl.t[id]; !ok {
		return classes.ErrNotFound
	}
	delete(tbl.t, id)
	return nil
}
