package state

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) GetState(ctx context.Context, userID int64) (*UserState, error) {
	args := m.Called(ctx, userID)
	userState, _ := args.Get(0).(*UserState)
	return userState, args.Error(1)
}

func (m *mockStorage) SetState(ctx context.Context, userID int64, userState *UserState) error {
	args := m.Called(ctx, userID, userState)
	return args.Error(0)
}

func (m *mockStorage) ClearState(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockStorage) GetAllStates(ctx context.Context) ([]*UserState, error) {
	args := m.Called(ctx)
	states, _ := args.Get(0).([]*UserState)
	return states, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTransitionTo(t *testing.T) {
	const userID int64 = 42

	testCases := []struct {
		name        string
		newState    State
		contextData map[string]interface{}
		setupMocks  func(ms *mockStorage)
		wantErr     error
	}{
		{
			name:     "valid transition from idle",
			newState: StateSignupName,
			setupMocks: func(ms *mockStorage) {
				ms.On("GetState", mock.Anything, userID).
					Return(&UserState{UserID: userID, CurrentState: StateIdle}, nil)
				ms.On("SetState", mock.Anything, userID, mock.MatchedBy(func(s *UserState) bool {
					return s.CurrentState == StateSignupName
				})).Return(nil)
			},
		},
		{
			name:     "unknown user treated as idle",
			newState: StateSignupName,
			setupMocks: func(ms *mockStorage) {
				ms.On("GetState", mock.Anything, userID).Return(nil, ErrStateNotFound)
				ms.On("SetState", mock.Anything, userID, mock.MatchedBy(func(s *UserState) bool {
					return s.CurrentState == StateSignupName
				})).Return(nil)
			},
		},
		{
			name:     "invalid transition",
			newState: StateSignupConfirm,
			setupMocks: func(ms *mockStorage) {
				ms.On("GetState", mock.Anything, userID).
					Return(&UserState{UserID: userID, CurrentState: StateIdle}, nil)
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name:     "storage failure surfaces",
			newState: StateSignupName,
			setupMocks: func(ms *mockStorage) {
				ms.On("GetState", mock.Anything, userID).Return(nil, errors.New("redis down"))
			},
			wantErr: errors.New("redis down"),
		},
		{
			name:     "nil context carries stored answers forward",
			newState: StateSignupEmail,
			setupMocks: func(ms *mockStorage) {
				ms.On("GetState", mock.Anything, userID).Return(&UserState{
					UserID:       userID,
					CurrentState: StateSignupName,
					Context:      map[string]interface{}{ContextKeyFullName: "Dana Haddad"},
				}, nil)
				ms.On("SetState", mock.Anything, userID, mock.MatchedBy(func(s *UserState) bool {
					return s.CurrentState == StateSignupEmail && s.ContextString(ContextKeyFullName) == "Dana Haddad"
				})).Return(nil)
			},
		},
		{
			name:        "explicit context replaces stored one",
			newState:    StateSignupEmail,
			contextData: map[string]interface{}{ContextKeyFullName: "Omar Said"},
			setupMocks: func(ms *mockStorage) {
				ms.On("GetState", mock.Anything, userID).Return(&UserState{
					UserID:       userID,
					CurrentState: StateSignupName,
					Context:      map[string]interface{}{ContextKeyFullName: "Dana Haddad"},
				}, nil)
				ms.On("SetState", mock.Anything, userID, mock.MatchedBy(func(s *UserState) bool {
					return s.ContextString(ContextKeyFullName) == "Omar Said"
				})).Return(nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ms := new(mockStorage)
			tc.setupMocks(ms)

			fsm := NewStateMachine(ms, testLogger(), nil, 0)
			err := fsm.TransitionTo(context.Background(), userID, tc.newState, tc.contextData)

			if tc.wantErr != nil {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr.Error())
			} else {
				require.NoError(t, err)
			}
			ms.AssertExpectations(t)
		})
	}
}

func TestSetStateSkipsValidation(t *testing.T) {
	ms := new(mockStorage)
	ms.On("SetState", mock.Anything, int64(7), mock.MatchedBy(func(s *UserState) bool {
		return s.CurrentState == StateSignupConfirm
	})).Return(nil)

	fsm := NewStateMachine(ms, testLogger(), nil, 0)
	require.NoError(t, fsm.SetState(context.Background(), 7, StateSignupConfirm, nil))
	ms.AssertExpectations(t)
}

func TestClearState(t *testing.T) {
	ms := new(mockStorage)
	ms.On("ClearState", mock.Anything, int64(7)).Return(nil)

	fsm := NewStateMachine(ms, testLogger(), nil, 0)
	require.NoError(t, fsm.ClearState(context.Background(), 7))
	ms.AssertExpectations(t)
}

func TestTransitionToLocked(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("user:lock:42", "1"))

	ms := new(mockStorage)
	fsm := NewStateMachine(ms, testLogger(), client, time.Second)

	err := fsm.TransitionTo(context.Background(), 42, StateSignupName, nil)
	require.ErrorIs(t, err, ErrStateLocked)
	ms.AssertExpectations(t)
}

func TestTransitionToReleasesLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ms := new(mockStorage)
	ms.On("GetState", mock.Anything, int64(42)).Return(nil, ErrStateNotFound)
	ms.On("SetState", mock.Anything, int64(42), mock.Anything).Return(nil)

	fsm := NewStateMachine(ms, testLogger(), client, time.Second)
	require.NoError(t, fsm.TransitionTo(context.Background(), 42, StateSignupName, nil))

	require.False(t, mr.Exists("user:lock:42"), "lock must be released after the transition")
	ms.AssertExpectations(t)
}

func TestTransitionRecorder(t *testing.T) {
	var recorded [][2]string
	RegisterTransitionRecorder(func(from, to string) {
		recorded = append(recorded, [2]string{from, to})
	})
	t.Cleanup(func() { RegisterTransitionRecorder(nil) })

	ms := new(mockStorage)
	ms.On("GetState", mock.Anything, int64(9)).Return(nil, ErrStateNotFound)
	ms.On("SetState", mock.Anything, int64(9), mock.Anything).Return(nil)

	fsm := NewStateMachine(ms, testLogger(), nil, 0)
	require.NoError(t, fsm.TransitionTo(context.Background(), 9, StateSignupName, nil))

	require.Equal(t, [][2]string{{string(StateIdle), string(StateSignupName)}}, recorded)
}
