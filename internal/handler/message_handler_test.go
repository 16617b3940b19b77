package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"quickchat/internal/app/chat"
	"quickchat/internal/app/message"
	"quickchat/internal/app/user"
	"quickchat/internal/pkg/errs"
)

// fakeUserStore serves a fixed set of accounts.
type fakeUserStore struct {
	users []user.User
}

func (f *fakeUserStore) Create(_ context.Context, u *user.User) error {
	u.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	u.CreatedAt = time.Now()
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*user.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) ListOthers(_ context.Context, selfID string) ([]user.User, error) {
	var out []user.User
	for i := range f.users {
		if f.users[i].ID != selfID {
			out = append(out, f.users[i])
		}
	}
	return out, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id, fullName, bio string, profilePic *string) (*user.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].FullName = fullName
			f.users[i].Bio = bio
			if profilePic != nil {
				f.users[i].ProfilePic = *profilePic
			}
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// fakeMessageStore is a minimal in-memory message.Store.
type fakeMessageStore struct {
	rows   []*message.Message
	nextID int
}

func (f *fakeMessageStore) Insert(_ context.Context, msg *message.Message) error {
	f.nextID++
	msg.ID = fmt.Sprintf("msg-%d", f.nextID)
	msg.Seen = false
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = msg.CreatedAt

	stored := *msg
	f.rows = append(f.rows, &stored)
	return nil
}

func (f *fakeMessageStore) ListConversation(_ context.Context, selfID, peerID string) ([]message.Message, error) {
	var out []message.Message
	for _, row := range f.rows {
		if (row.SenderID == selfID && row.ReceiverID == peerID) ||
			(row.SenderID == peerID && row.ReceiverID == selfID) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) MarkConversationSeen(_ context.Context, senderID, receiverID string) (int64, error) {
	var flipped int64
	for _, row := range f.rows {
		if row.SenderID == senderID && row.ReceiverID == receiverID && !row.Seen {
			row.Seen = true
			flipped++
		}
	}
	return flipped, nil
}

func (f *fakeMessageStore) MarkSeen(_ context.Context, messageID string) (*message.Message, error) {
	for _, row := range f.rows {
		if row.ID == messageID {
			row.Seen = true
			updated := *row
			return &updated, nil
		}
	}
	return nil, nil
}

func (f *fakeMessageStore) CountUnseen(_ context.Context, receiverID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, row := range f.rows {
		if row.ReceiverID == receiverID && !row.Seen {
			counts[row.SenderID]++
		}
	}
	return counts, nil
}

type fakeImageService struct {
	url string
}

func (f *fakeImageService) UploadImage(_ context.Context, _ []byte, _ string) (string, error) {
	return f.url, nil
}

// noPresence reports every user as offline.
type noPresence struct{}

func (noPresence) Lookup(string) (chat.Session, bool) { return nil, false }

type testEnv struct {
	deps     *AppDeps
	messages *fakeMessageStore
	self     *user.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	self := user.User{ID: "user-1", Email: "alice@example.com", FullName: "Alice"}
	peer := user.User{ID: "user-2", Email: "bob@example.com", FullName: "Bob"}

	users := &fakeUserStore{users: []user.User{self, peer}}
	messages := &fakeMessageStore{}
	images := &fakeImageService{url: "https://cdn.example.com/images/test.png"}

	deps := &AppDeps{
		Dispatcher: chat.NewDispatcher(messages, images, noPresence{}),
		Users:      users,
		Messages:   message.NewService(messages),
		Images:     images,
	}

	return &testEnv{deps: deps, messages: messages, self: &self}
}

// serve runs the request through a router with the authenticated user injected
// the way RequireUser would.
func (env *testEnv) serve(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(WithCurrentUser(req.Context(), env.self)))
		})
	})
	r.Get("/api/messages/users", HandleSidebarUsers(env.deps))
	r.Get("/api/messages/{id}", HandleGetConversation(env.deps))
	r.Put("/api/messages/mark/{id}", HandleMarkSeen(env.deps))
	r.Post("/api/messages/send/{id}", HandleSendMessage(env.deps))

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHandleSendMessage_Text(t *testing.T) {
	req := require.New(t)

	env := newTestEnv(t)
	rec := env.serve(t, http.MethodPost, "/api/messages/send/user-2", SendMessageInput{Text: "hello"})
	req.Equal(http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	req.Equal(true, payload["success"])

	newMessage, ok := payload["newMessage"].(map[string]any)
	req.True(ok)
	req.Equal("user-1", newMessage["senderId"])
	req.Equal("user-2", newMessage["receiverId"])
	req.Equal("hello", newMessage["text"])
	req.Nil(newMessage["image"])
	req.Equal(false, newMessage["seen"])

	req.Len(env.messages.rows, 1)
}

func TestHandleSendMessage_EmptyBodyRejected(t *testing.T) {
	req := require.New(t)

	env := newTestEnv(t)
	rec := env.serve(t, http.MethodPost, "/api/messages/send/user-2", SendMessageInput{})
	req.Equal(http.StatusBadRequest, rec.Code)

	payload := decodeBody(t, rec)
	req.Equal(false, payload["success"])
	req.Equal(float64(errs.ErrEmptyMessage), payload["code"])
	req.Empty(env.messages.rows)
}

func TestHandleSendMessage_InvalidImageRejected(t *testing.T) {
	req := require.New(t)

	env := newTestEnv(t)
	rec := env.serve(t, http.MethodPost, "/api/messages/send/user-2", SendMessageInput{Image: "not-a-data-uri"})
	req.Equal(http.StatusBadRequest, rec.Code)

	payload := decodeBody(t, rec)
	req.Equal(float64(errs.ErrImageDataInvalid), payload["code"])
	req.Empty(env.messages.rows)
}

func TestHandleMarkSeen_UnknownIDIsSuccessWithNull(t *testing.T) {
	req := require.New(t)

	env := newTestEnv(t)
	rec := env.serve(t, http.MethodPut, "/api/messages/mark/no-such-id", nil)
	req.Equal(http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	req.Equal(true, payload["success"])

	value, present := payload["message"]
	req.True(present)
	req.Nil(value)
}

func TestHandleGetConversation_MarksIncomingSeen(t *testing.T) {
	req := require.New(t)

	env := newTestEnv(t)
	text := "hi alice"
	incoming := &message.Message{SenderID: "user-2", ReceiverID: "user-1", Text: &text}
	require.NoError(t, env.messages.Insert(context.Background(), incoming))

	rec := env.serve(t, http.MethodGet, "/api/messages/user-2", nil)
	req.Equal(http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	req.Equal(true, payload["success"])

	messages, ok := payload["messages"].([]any)
	req.True(ok)
	req.Len(messages, 1)

	// The response is the pre-flip snapshot; the store has been flipped.
	first := messages[0].(map[string]any)
	req.Equal(false, first["seen"])
	req.True(env.messages.rows[0].Seen)
}

func TestHandleSidebarUsers_Shape(t *testing.T) {
	req := require.New(t)

	env := newTestEnv(t)
	text := "unread"
	require.NoError(t, env.messages.Insert(context.Background(), &message.Message{
		SenderID: "user-2", ReceiverID: "user-1", Text: &text,
	}))

	rec := env.serve(t, http.MethodGet, "/api/messages/users", nil)
	req.Equal(http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	req.Equal(true, payload["success"])

	users, ok := payload["users"].([]any)
	req.True(ok)
	req.Len(users, 1)

	first := users[0].(map[string]any)
	req.Equal("user-2", first["id"])
	req.NotContains(first, "passwordHash")

	unseen, ok := payload["unseenMessages"].(map[string]any)
	req.True(ok)
	req.Equal(float64(1), unseen["user-2"])
}
