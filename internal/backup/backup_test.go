package backup

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tmackey/wortwatch/internal/database"
	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/store"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*input.Key]
	if !ok {
		return nil, &s3NotFound{}
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(string(data))),
	}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type s3NotFound struct{}

func (e *s3NotFound) Error() string { return "NoSuchKey" }

func setupSnapshotTest(t *testing.T) (*Manager, *mockS3Client, *store.SnapshotStore) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "wortwatch.db")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	snapshots := store.NewSnapshotStore(db)
	m := NewManager(Config{
		S3:            S3Config{Bucket: "test", AccessKey: "key", SecretKey: "secret"},
		DBPath:        dbPath,
		Passphrase:    "hunter2",
		RetentionDays: 30,
	}, db, snapshots, slog.Default())

	mock := newMockS3()
	m.client = mock
	return m, mock, snapshots
}

func TestManagerDisabledWithoutConfig(t *testing.T) {
	m := NewManager(Config{}, nil, nil, slog.Default())
	if m.Status().State != StateDisabled {
		t.Errorf("state = %q, want %q", m.Status().State, StateDisabled)
	}
	if m.Enabled() {
		t.Error("unconfigured manager should not be enabled")
	}

	// S3 alone is not enough; the passphrase is required too.
	m2 := NewManager(Config{
		S3: S3Config{Bucket: "test", AccessKey: "key", SecretKey: "secret"},
	}, nil, nil, slog.Default())
	if m2.Status().State != StateDisabled {
		t.Errorf("state without passphrase = %q, want disabled", m2.Status().State)
	}
}

func TestRunNowUploadsEncryptedSnapshot(t *testing.T) {
	m, mock, snapshots := setupSnapshotTest(t)

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run now: %v", err)
	}

	record, err := snapshots.GetByID(id)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if record.Status != model.SnapshotCompleted {
		t.Errorf("status = %q, want completed", record.Status)
	}
	if record.SizeBytes == 0 {
		t.Error("expected nonzero snapshot size")
	}

	mock.mu.Lock()
	data, ok := mock.objects[record.ObjectKey]
	mock.mu.Unlock()
	if !ok {
		t.Fatalf("object %q not uploaded", record.ObjectKey)
	}
	if string(data[:4]) != "WWS1" {
		t.Error("uploaded object is not in the snapshot format")
	}

	status := m.Status()
	if status.State != StateIdle || status.LastSnapshot == nil {
		t.Errorf("status after run = %+v", status)
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	m, mock, snapshots := setupSnapshotTest(t)
	mock.putErr = &s3NotFound{}

	if _, err := m.RunNow(context.Background()); err == nil {
		t.Fatal("expected upload failure")
	}

	list, err := snapshots.List(10)
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(list) != 1 || list[0].Status != model.SnapshotFailed {
		t.Errorf("expected one failed record, got %+v", list)
	}
	if m.Status().State != StateError {
		t.Errorf("state = %q, want error", m.Status().State)
	}
}

func TestCleanupDeletesOldObjects(t *testing.T) {
	m, mock, snapshots := setupSnapshotTest(t)

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run now: %v", err)
	}
	record, _ := snapshots.GetByID(id)

	// Age the record past retention.
	if _, err := m.db.Exec(`UPDATE snapshots SET created_at = ? WHERE id = ?`,
		time.Now().UTC().AddDate(0, 0, -60), id); err != nil {
		t.Fatalf("age snapshot: %v", err)
	}

	if err := m.Cleanup(context.Background()); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if got, _ := snapshots.GetByID(id); got != nil {
		t.Error("expected old snapshot record deleted")
	}
	mock.mu.Lock()
	_, stillThere := mock.objects[record.ObjectKey]
	mock.mu.Unlock()
	if stillThere {
		t.Error("expected old s3 object deleted")
	}
}

func TestStartStopDisabled(t *testing.T) {
	m := NewManager(Config{}, nil, nil, slog.Default())
	// Start on a disabled manager is a no-op; Stop must not hang.
	m.Start(context.Background())
	m.Stop()
}
