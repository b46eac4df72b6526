package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskflow/taskflow/internal"
	"github.com/taskflow/taskflow/internal/task"
)

func TestTaskRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TaskRepository Suite")
}

var _ = Describe("TaskRepository", func() {
	var (
		db   *gorm.DB
		repo *TaskRepository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&task.Task{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewTaskRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).NotTo(HaveOccurred())
	})

	Describe("Create", func() {
		It("should persist a task", func() {
			t := &task.Task{
				Title:     "Write migration",
				Status:    task.StatusPending,
				CreatedBy: 1,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}

			Expect(repo.Create(t)).To(Succeed())
			Expect(t.ID).ToNot(BeZero())
		})
	})

	Describe("GetByID", func() {
		It("should load a stored task", func() {
			t := &task.Task{Title: "Find me", Status: task.StatusPending, CreatedBy: 1}
			Expect(repo.Create(t)).To(Succeed())

			got, err := repo.GetByID(t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("Find me"))
		})

		It("should report a missing task", func() {
			_, err := repo.GetByID(99)
			Expect(err).To(Equal(internal.ErrTaskNotFound))
		})
	})

	Describe("Update", func() {
		It("should save changes", func() {
			t := &task.Task{Title: "Draft", Status: task.StatusPending, CreatedBy: 1}
			Expect(repo.Create(t)).To(Succeed())

			t.Status = task.StatusCompleted
			Expect(repo.Update(t)).To(Succeed())

			got, err := repo.GetByID(t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(task.StatusCompleted))
		})
	})

	Describe("Delete", func() {
		It("should remove the row", func() {
			t := &task.Task{Title: "Temp", Status: task.StatusPending, CreatedBy: 1}
			Expect(repo.Create(t)).To(Succeed())

			Expect(repo.Delete(t.ID)).To(Succeed())

			_, err := repo.GetByID(t.ID)
			Expect(err).To(Equal(internal.ErrTaskNotFound))
		})
	})

	Describe("List", func() {
		It("should page newest first", func() {
			older := &task.Task{Title: "Older", Status: task.StatusPending, CreatedBy: 1, CreatedAt: time.Now().Add(-time.Hour)}
			newer := &task.Task{Title: "Newer", Status: task.StatusPending, CreatedBy: 1, CreatedAt: time.Now()}
			Expect(repo.Create(older)).To(Succeed())
			Expect(repo.Create(newer)).To(Succeed())

			page, err := repo.List(1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(1))
			Expect(page[0].Title).To(Equal("Newer"))
		})
	})
})
