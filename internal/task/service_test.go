package task

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/tasktrack/models"
	"github.com/josephgoksu/tasktrack/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tasksPath = "tasks.txt"

// fixedClock returns a clock that reports the given day and can be advanced.
func fixedClock(day string) (func() time.Time, func(time.Duration)) {
	now, err := time.ParseInLocation(models.DateLayout, day, time.Local)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func newTestService(t *testing.T, owner, contents string, opts ...Option) (*Service, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	if contents != "" {
		require.NoError(t, afero.WriteFile(fs, tasksPath, []byte(contents), 0o644))
	}
	s, err := store.NewFileStore(fs, "users.txt", tasksPath)
	require.NoError(t, err)

	svc := NewService(s, owner, opts...)
	require.NoError(t, svc.Load())
	return svc, fs
}

func readTasksFile(t *testing.T, fs afero.Fs) string {
	t.Helper()
	data, err := afero.ReadFile(fs, tasksPath)
	require.NoError(t, err)
	return string(data)
}

func ownedLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "ID: ") {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestService_Scenario(t *testing.T) {
	clock, _ := fixedClock("2024-03-15")
	svc, fs := newTestService(t, "alice", "", WithClock(clock))

	first, err := svc.Add("Buy milk", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	second, err := svc.Add("Pay bills", "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	done, err := svc.Complete(1)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, "2024-03-15", done.CompletionDate)

	require.NoError(t, svc.Delete(2))

	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].ID)

	var out bytes.Buffer
	svc.Display(&out)
	lines := ownedLines(out.String())
	require.Len(t, lines, 1)
	assert.Equal(t, "ID: 1, Description: Buy milk, Deadline: 2024-01-01, Completed: Yes, Completion Date: 2024-03-15", lines[0])

	assert.Equal(t, "1 alice \"Buy milk\" 2024-01-01 1 2024-03-15\n", readTasksFile(t, fs))
}

func TestService_AddUsesMaxIDAcrossOwners(t *testing.T) {
	svc, _ := newTestService(t, "alice", "5 bob a b 0\n2 alice c d 0\n")

	task, err := svc.Add("next", "soon")
	require.NoError(t, err)
	assert.Equal(t, 6, task.ID)
	assert.Equal(t, "alice", task.Owner)
	assert.False(t, task.Completed)
	assert.Empty(t, task.CompletionDate)

	task, err = svc.Add("after", "later")
	require.NoError(t, err)
	assert.Equal(t, 7, task.ID)
}

func TestService_IDsStrictlyIncrease(t *testing.T) {
	svc, _ := newTestService(t, "alice", "3 bob a b 0\n")

	seen := 3
	for i := 0; i < 5; i++ {
		task, err := svc.Add("t", "d")
		require.NoError(t, err)
		assert.Greater(t, task.ID, seen)
		seen = task.ID
		if i == 2 {
			require.NoError(t, svc.Delete(task.ID-1))
		}
	}
}

func TestService_AddAcceptsEmptyFields(t *testing.T) {
	svc, fs := newTestService(t, "alice", "")

	_, err := svc.Add("", "")
	require.NoError(t, err)

	reloaded, err := newTestServiceFromFS(t, fs, "alice")
	require.NoError(t, err)
	assert.Equal(t, svc.All(), reloaded.All())
}

func newTestServiceFromFS(t *testing.T, fs afero.Fs, owner string) (*Service, error) {
	t.Helper()
	s, err := store.NewFileStore(fs, "users.txt", tasksPath)
	require.NoError(t, err)
	svc := NewService(s, owner)
	return svc, svc.Load()
}

func TestService_RepeatCompletionResetsDate(t *testing.T) {
	clock, advance := fixedClock("2024-01-01")
	svc, _ := newTestService(t, "alice", "1 alice a b 0\n", WithClock(clock))

	first, err := svc.Complete(1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", first.CompletionDate)

	advance(48 * time.Hour)
	again, err := svc.Complete(1)
	require.NoError(t, err)
	assert.True(t, again.Completed)
	assert.Equal(t, "2024-01-03", again.CompletionDate)
}

func TestService_NotFoundLeavesFileUnchanged(t *testing.T) {
	original := "1 alice a b 0\n2 bob c d 1 2024-01-01\n"
	svc, fs := newTestService(t, "alice", original)

	err := svc.Delete(999)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.Complete(999)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.Equal(t, original, readTasksFile(t, fs))
	assert.Len(t, svc.All(), 2)
}

func TestService_PermissivePolicyTouchesAnyOwner(t *testing.T) {
	svc, _ := newTestService(t, "alice", "1 bob a b 0\n2 bob c d 0\n")

	_, err := svc.Complete(1)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(2))

	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "bob", all[0].Owner)
	assert.True(t, all[0].Completed)
}

func TestService_EnforceOwnership(t *testing.T) {
	original := "1 bob a b 0\n2 alice c d 0\n"
	svc, fs := newTestService(t, "alice", original, WithPolicy(Policy{EnforceOwnership: true}))

	assert.ErrorIs(t, svc.Delete(1), ErrTaskNotFound)
	_, err := svc.Complete(1)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, ok := svc.Find(1)
	assert.False(t, ok)
	assert.Equal(t, original, readTasksFile(t, fs))

	_, ok = svc.Find(2)
	assert.True(t, ok)
	require.NoError(t, svc.Delete(2))
	assert.Equal(t, "1 bob a b 0\n", readTasksFile(t, fs))
}

func TestService_DeleteRemovesFirstMatchOnly(t *testing.T) {
	svc, _ := newTestService(t, "alice", "1 alice first x 0\n1 alice second x 0\n")

	require.NoError(t, svc.Delete(1))

	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "second", all[0].Description)
}

func TestService_DisplayOnlyShowsOwner(t *testing.T) {
	svc, _ := newTestService(t, "alice", "1 bob a b 0\n2 alice c d 0\n3 bob e f 1 2024-01-01\n4 alice g h 1 2024-02-02\n")

	var out bytes.Buffer
	svc.Display(&out)

	assert.Contains(t, out.String(), "Tasks:")
	assert.Equal(t, []string{
		"ID: 2, Description: c, Deadline: d, Completed: No",
		"ID: 4, Description: g, Deadline: h, Completed: Yes, Completion Date: 2024-02-02",
	}, ownedLines(out.String()))
}

func TestService_DisplayEmptyEvenWhenOthersHaveTasks(t *testing.T) {
	svc, _ := newTestService(t, "carol", "1 bob a b 0\n")

	var out bytes.Buffer
	svc.Display(&out)

	assert.Equal(t, NoTasksMessage+"\n", out.String())
}

func TestService_Stats(t *testing.T) {
	svc, _ := newTestService(t, "alice", "1 alice a b 0\n2 alice c d 1 2024-01-01\n3 bob e f 0\n4 alice g h 0\n")

	sum := svc.Stats()
	assert.Equal(t, Summary{Open: 2, Completed: 1}, sum)
	assert.Equal(t, 3, sum.Total())
	assert.Len(t, svc.Owned(), 3)
	assert.Equal(t, "alice", svc.Owner())
}

func TestService_LoadToleratesGarbage(t *testing.T) {
	svc, _ := newTestService(t, "alice", "garbage\n2 alice ok d 0\n")

	all := svc.All()
	require.Len(t, all, 2)
	assert.Equal(t, 0, all[0].ID)

	task, err := svc.Add("x", "y")
	require.NoError(t, err)
	assert.Equal(t, 3, task.ID)
}

type brokenRepo struct {
	loadErr error
	saveErr error
	tasks   []models.Task
}

func (r *brokenRepo) LoadTasks() ([]models.Task, error) {
	return r.tasks, r.loadErr
}

func (r *brokenRepo) SaveTasks([]models.Task) error {
	return r.saveErr
}

func TestService_LoadFailureLeavesEmptyList(t *testing.T) {
	svc := NewService(&brokenRepo{loadErr: errors.New("unable to open")}, "alice")

	err := svc.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load tasks")
	assert.Empty(t, svc.All())
}

func TestService_MutationsRefusedAfterFailedLoad(t *testing.T) {
	repo := &brokenRepo{loadErr: errors.New("unable to open"), saveErr: errors.New("must not be called")}
	svc := NewService(repo, "alice")
	require.Error(t, svc.Load())

	_, err := svc.Add("a", "b")
	assert.ErrorIs(t, err, ErrStorageUnread)
	assert.ErrorIs(t, svc.Delete(1), ErrStorageUnread)
	_, err = svc.Complete(1)
	assert.ErrorIs(t, err, ErrStorageUnread)
	assert.Empty(t, svc.All())

	repo.loadErr = nil
	repo.saveErr = nil
	repo.tasks = []models.Task{models.NewTask(3, "bob", "c", "d")}
	require.NoError(t, svc.Load())
	task, err := svc.Add("a", "b")
	require.NoError(t, err)
	assert.Equal(t, 4, task.ID)
}

func TestService_SaveFailureKeepsMemoryChange(t *testing.T) {
	repo := &brokenRepo{saveErr: errors.New("unable to open for writing")}
	svc := NewService(repo, "alice")
	require.NoError(t, svc.Load())

	task, err := svc.Add("a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save tasks")
	assert.Equal(t, 1, task.ID)
	assert.Len(t, svc.All(), 1)
}

func TestFormatTask(t *testing.T) {
	assert.Equal(t,
		"ID: 7, Description: Walk dog, Deadline: today, Completed: No",
		FormatTask(models.NewTask(7, "alice", "Walk dog", "today")))
}
