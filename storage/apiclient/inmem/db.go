// Package inmemdb is an in-memory stand-in for the remote API, used by
// tests and the offline demo mode.
package inmemdb

import (
	"sync"

	"github.com/trezcool/findtutor/core/classes"
	"github.com/trezcool/findtutor/core/post"
	"github.com/trezcool/findtutor/core/profile"
	"github.com/trezcool/findtutor/core/request"
)

type (
	DB struct {
		teachers *teacherTable
		students *studentTable
		requests *requestTable
		classes  *classTable
		posts    *postTable
	}

	teacherTable struct {
		t     map[int]*profile.Teacher
		pk    int
		mutex sync.RWMutex
	}

	studentTable struct {
		t     map[int]*profile.Student
		pk    int
		mutex sync.RWMutex
	}

	requestTable struct {
		t     map[int]*request.Request
		seen  map[string]int // idempotency key -> request id
		pk    int
		mutex sync.RWMutex
	}

	classTable struct {
		t     map[int]*classes.Class
		pk    int
		mutex sync.RWMutex
	}

	postTable struct {
		t     map[int]*post.StudentPost
		pk    int
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		teachers: &teacherTable{t: make(map[int]*profile.Teacher)},
		students: &studentTable{t: make(map[int]*profile.Student)},
		requests: &requestTable{t: make(map[int]*request.Request), seen: make(map[string]int)},
		classes:  &classTable{t: make(map[int]*classes.Class)},
		posts:    &postTable{t: make(map[int]*post.StudentPost)},
	}
	return db, nil
}

// Reset drops all tables; tests use it between cases.
func (db *DB) Reset() {
	db.teachers.mutex.Lock()
	db.teachers.t = make(map[int]*profile.Teacher)
	db.teachers.pk = 0
	db.teachers.mutex.Unlock()

	db.students.mutex.Lock()
	db.students.t = make(map[int]*profile.Student)
	db.students.pk = 0
	db.students.mutex.Unlock()

	db.requests.mutex.Lock()
	db.requests.t = make(map[int]*request.Request)
	db.requests.seen = make(map[string]int)
	db.requests.pk = 0
	db.requests.mutex.Unlock()

	db.classes.mutex.Lock()
	db.classes.t = make(map[int]*classes.Class)
	db.classes.pk = 0
	db.classes.mutex.Unlock()

	db.posts.mutex.Lock()
	db.posts.t = make(map[int]*post.StudentPost)
	db.posts.pk = 0
	db.posts.mutex.Unlock()
}
