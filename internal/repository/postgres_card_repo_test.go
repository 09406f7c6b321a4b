package repository

import "testing"

// PostgresCardRepoはCardRepositoryインターフェースを満たすことを検証
func TestPostgresCardRepo_ImplementsInterface(t *testing.T) {
	var _ CardRepository = (*PostgresCardRepo)(nil)
}

// PostgresCaptureSessionRepoはCaptureSessionRepositoryインターフェースを満たすことを検証
func TestPostgresCaptureSessionRepo_ImplementsInterface(t *testing.T) {
	var _ CaptureSessionRepository = (*PostgresCaptureSessionRepo)(nil)
}

// NewPostgresCardRepoが正しく初期化されることを検証
func TestNewPostgresCardRepo_Initializes(t *testing.T) {
	repo := NewPostgresCardRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresCaptureSessionRepoが正しく初期化されることを検証
func TestNewPostgresCaptureSessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresCaptureSessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
