package synchronizer_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/sipcall/internal/adapters/storage/memory"
	"github.com/PabloGalante/sipcall/internal/app/directory"
	"github.com/PabloGalante/sipcall/internal/app/history"
	"github.com/PabloGalante/sipcall/internal/app/synchronizer"
	"github.com/PabloGalante/sipcall/internal/domain"
)

type failingFinder struct{}

func (failingFinder) FindByPhone(context.Context, string) (*domain.Contact, error) {
	return nil, errors.New("network unreachable")
}

type slowFinder struct {
	calls   atomic.Int32
	release chan struct{}
}

func (f *slowFinder) FindByPhone(_ context.Context, phone string) (*domain.Contact, error) {
	f.calls.Add(1)
	<-f.release
	return &domain.Contact{ID: "c1", Name: "Anna", Phone: phone}, nil
}

type failingAppender struct{}

func (failingAppender) Append(context.Context, string, string, domain.CallType) (domain.CallRecordID, error) {
	return "", &domain.StoreError{Op: "append call record", Err: errors.New("unavailable")}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	dir := directory.NewService(memory.NewContactStore())
	s := synchronizer.New(dir, history.NewService(memory.NewHistoryStore()))

	_, err := dir.Create(ctx, directory.CreateContactInput{Name: "Anna", Phone: "0901234567"})
	require.NoError(t, err)

	res := s.Resolve(ctx, "0901234567")
	require.True(t, res.IsKnown())
	assert.Equal(t, "Anna", res.DisplayName())

	res = s.Resolve(ctx, "0909999999")
	assert.False(t, res.IsKnown())
}

func TestResolveSwallowsLookupErrors(t *testing.T) {
	s := synchronizer.New(failingFinder{}, history.NewService(memory.NewHistoryStore()))

	res := s.Resolve(context.Background(), "0901234567")
	assert.False(t, res.IsKnown())
	assert.Equal(t, "", res.DisplayName())
}

func TestResolveCoalescesConcurrentLookups(t *testing.T) {
	finder := &slowFinder{release: make(chan struct{})}
	s := synchronizer.New(finder, history.NewService(memory.NewHistoryStore()))

	var wg sync.WaitGroup
	results := make([]domain.Resolution, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Resolve(context.Background(), "0901234567")
		}(i)
	}

	// let every goroutine join the in-flight lookup before releasing it
	time.Sleep(50 * time.Millisecond)
	close(finder.release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "Anna", r.DisplayName())
	}
	assert.LessOrEqual(t, finder.calls.Load(), int32(len(results)))
	assert.GreaterOrEqual(t, finder.calls.Load(), int32(1))
}

func TestRecordSessionOutcome(t *testing.T) {
	ctx := context.Background()
	hist := history.NewService(memory.NewHistoryStore())
	s := synchronizer.New(directory.NewService(memory.NewContactStore()), hist)

	connectedAt := time.Now()
	endedAt := connectedAt.Add(time.Minute)
	name := "Anna"

	cases := []struct {
		name     string
		session  domain.CallSession
		wantType domain.CallType
		wantName string
	}{
		{
			name: "connected outgoing with contact",
			session: domain.CallSession{
				ID: "s1", TargetPhone: "0901234567", ResolvedContactName: &name,
				Direction: domain.DirectionOutgoing, Status: domain.StatusEnded,
				ConnectedAt: &connectedAt, EndedAt: &endedAt,
			},
			wantType: domain.CallOutgoing,
			wantName: "Anna",
		},
		{
			name: "connected incoming unknown",
			session: domain.CallSession{
				ID: "s2", TargetPhone: "0909999999",
				Direction: domain.DirectionIncoming, Status: domain.StatusEnded,
				ConnectedAt: &connectedAt, EndedAt: &endedAt,
			},
			wantType: domain.CallIncoming,
			wantName: "",
		},
		{
			name: "never connected",
			session: domain.CallSession{
				ID: "s3", TargetPhone: "0911111111",
				Direction: domain.DirectionOutgoing, Status: domain.StatusEnded, EndedAt: &endedAt,
			},
			wantType: domain.CallMissed,
			wantName: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := s.RecordSessionOutcome(ctx, tc.session)
			require.NoError(t, err)

			list, err := hist.List(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, list)

			got := list[0]
			assert.Equal(t, id, got.ID)
			assert.Equal(t, tc.session.TargetPhone, got.Phone)
			assert.Equal(t, tc.wantName, got.Name)
			assert.Equal(t, tc.wantType, got.Type)
		})
	}
}

func TestRecordSessionOutcomeRejectsLiveSession(t *testing.T) {
	s := synchronizer.New(failingFinder{}, history.NewService(memory.NewHistoryStore()))

	_, err := s.RecordSessionOutcome(context.Background(), domain.CallSession{ID: "s1", Status: domain.StatusConnected})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRecordSessionOutcomeSurfacesStoreErrors(t *testing.T) {
	s := synchronizer.New(failingFinder{}, failingAppender{})

	_, err := s.RecordSessionOutcome(context.Background(), domain.CallSession{ID: "s1", Status: domain.StatusEnded, TargetPhone: "1"})
	assert.ErrorIs(t, err, domain.ErrTransientStore)
}
