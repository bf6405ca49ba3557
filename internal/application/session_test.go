package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/infrastructure/storage"
)

type fakeComparer struct {
	result *entity.ComparisonResult
	err    error
	calls  int
	kinds  []entity.ComparisonKind
}

func (c *fakeComparer) Compare(ctx context.Context, kind entity.ComparisonKind, first, second []byte) (*entity.ComparisonResult, error) {
	c.calls++
	c.kinds = append(c.kinds, kind)
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func newSession(comparer *fakeComparer) (*SessionService, *storage.MemoryComparisonRepository) {
	repo := storage.NewMemoryComparisonRepository()
	svc := NewSessionService(NewUserService(storage.NewMemoryUserRepository()), comparer, repo)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, repo
}

func TestFingerprint(t *testing.T) {
	require.Len(t, Fingerprint([]byte("a")), 64)
	require.Equal(t, Fingerprint([]byte("a")), Fingerprint([]byte("a")))
	require.NotEqual(t, Fingerprint([]byte("a")), Fingerprint([]byte("b")))
}

func TestSessionService_TwoFilesProduceRecord(t *testing.T) {
	comparer := &fakeComparer{result: &entity.ComparisonResult{
		Kind:             entity.KindImage,
		DifferencesFound: true,
		Artifact:         &entity.Artifact{Data: []byte{1}, ContentType: ContentTypePNG, Pages: 1},
	}}
	svc, repo := newSession(comparer)
	ctx := context.Background()

	user, err := svc.Begin(ctx, 1, 100)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingFirstFile, user.State)

	out, err := svc.AcceptFile(ctx, 1, 100, IncomingFile{Name: "a.png", Kind: entity.KindImage, Data: []byte("first")})
	require.NoError(t, err)
	require.Nil(t, out.Comparison)
	require.Equal(t, entity.StateAwaitingSecondFile, out.User.State)
	require.Zero(t, comparer.calls)

	out, err = svc.AcceptFile(ctx, 1, 100, IncomingFile{Name: "b.png", Kind: entity.KindImage, Data: []byte("second")})
	require.NoError(t, err)
	require.NotNil(t, out.Comparison)
	require.Equal(t, entity.StateMainMenu, out.User.State)
	require.Equal(t, 1, comparer.calls)

	rec := out.Comparison
	require.Equal(t, int64(1), rec.OwnerID)
	require.True(t, rec.DifferencesFound)
	require.Equal(t, "a.png", rec.File1.Name)
	require.Equal(t, Fingerprint([]byte("first")), rec.File1.Fingerprint)
	require.Equal(t, len("second"), rec.File2.Size)
	require.NotZero(t, rec.ID)

	stored, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec, stored)

	last, err := svc.Last(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, rec.ID, last.ID)
}

func TestSessionService_KindMismatch(t *testing.T) {
	comparer := &fakeComparer{result: &entity.ComparisonResult{}}
	svc, _ := newSession(comparer)
	ctx := context.Background()

	_, err := svc.AcceptFile(ctx, 2, 200, IncomingFile{Kind: entity.KindImage, Data: []byte("img")})
	require.NoError(t, err)

	_, err = svc.AcceptFile(ctx, 2, 200, IncomingFile{Kind: entity.KindDocument, Data: []byte("pdf")})
	require.ErrorIs(t, err, ErrKindMismatch)
	require.Zero(t, comparer.calls)
}

func TestSessionService_ComparisonErrorResetsState(t *testing.T) {
	comparer := &fakeComparer{err: entity.NewError(entity.KindNoRegion, "locate", entity.ErrNoRegion)}
	svc, repo := newSession(comparer)
	ctx := context.Background()

	_, err := svc.AcceptFile(ctx, 3, 300, IncomingFile{Kind: entity.KindImage, Data: []byte("a")})
	require.NoError(t, err)
	_, err = svc.AcceptFile(ctx, 3, 300, IncomingFile{Kind: entity.KindImage, Data: []byte("b")})
	require.ErrorIs(t, err, entity.ErrNoRegion)

	user, err := svc.users.Get(ctx, 3, 300)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	history, err := repo.ListByOwner(ctx, 3, 10)
	require.NoError(t, err)
	require.Empty(t, history)

	// После ошибки следующий файл снова считается эталоном.
	out, err := svc.AcceptFile(ctx, 3, 300, IncomingFile{Kind: entity.KindImage, Data: []byte("c")})
	require.NoError(t, err)
	require.Nil(t, out.Comparison)
}

func TestSessionService_BusyAndCancel(t *testing.T) {
	users := storage.NewMemoryUserRepository()
	svc := NewSessionService(NewUserService(users), &fakeComparer{result: &entity.ComparisonResult{}}, nil)
	ctx := context.Background()

	busy := entity.NewUser(4, 400)
	busy.SetState(entity.StateProcessing)
	require.NoError(t, users.Save(ctx, busy))

	_, err := svc.AcceptFile(ctx, 4, 400, IncomingFile{Kind: entity.KindImage, Data: []byte("a")})
	require.True(t, errors.Is(err, ErrBusy))

	_, err = svc.Begin(ctx, 4, 400)
	require.ErrorIs(t, err, ErrInvalidTransition)

	user, err := svc.Cancel(ctx, 4, 400)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestSessionService_RejectsInvalidFile(t *testing.T) {
	svc, _ := newSession(&fakeComparer{})
	ctx := context.Background()

	_, err := svc.AcceptFile(ctx, 5, 500, IncomingFile{Kind: entity.ComparisonKind("zip"), Data: []byte("a")})
	require.Equal(t, entity.KindInput, entity.KindOf(err))

	_, err = svc.AcceptFile(ctx, 5, 500, IncomingFile{Kind: entity.KindImage})
	require.ErrorIs(t, err, entity.ErrEmptyInput)
}

func TestSessionService_LastWithoutHistory(t *testing.T) {
	svc, _ := newSession(&fakeComparer{})

	_, err := svc.Last(context.Background(), 6)
	require.ErrorIs(t, err, ErrNoComparisons)
}

func TestSessionService_FindChecksOwner(t *testing.T) {
	svc, repo := newSession(&fakeComparer{})
	ctx := context.Background()

	own := &entity.Comparison{OwnerID: 7, Kind: entity.KindImage}
	foreign := &entity.Comparison{OwnerID: 8, Kind: entity.KindImage}
	require.NoError(t, repo.Save(ctx, own))
	require.NoError(t, repo.Save(ctx, foreign))

	got, err := svc.Find(ctx, 7, own.ID)
	require.NoError(t, err)
	require.Equal(t, own, got)

	_, err = svc.Find(ctx, 7, foreign.ID)
	require.ErrorIs(t, err, entity.ErrComparisonNotFound)

	_, err = svc.Find(ctx, 7, 999)
	require.ErrorIs(t, err, entity.ErrComparisonNotFound)
}
