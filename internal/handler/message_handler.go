/*
Package handler provides the HTTP handler functions for the messaging surface:
the sidebar user list with unseen counts, conversation history, seen-state
transitions, and message sending.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quickchat/internal/app/chat"
	"quickchat/internal/app/storage"
	"quickchat/internal/pkg/errs"
	"quickchat/internal/pkg/logx"
	"quickchat/internal/pkg/req"
	"quickchat/internal/pkg/resp"
)

// HandleSidebarUsers lists every other account together with the per-sender
// unseen message counts for the authenticated user.
func HandleSidebarUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := CurrentUser(r)
		if current == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		users, err := deps.Users.ListOthers(r.Context(), current.ID)
		if err != nil {
			logx.Error(err, "failed to list users for sidebar", "user_id", current.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		unseen, err := deps.Messages.UnseenCounts(r.Context(), current.ID)
		if err != nil {
			logx.Error(err, "failed to count unseen messages", "user_id", current.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		userList := make([]map[string]any, 0, len(users))
		for i := range users {
			userList = append(userList, userPayload(&users[i]))
		}

		resp.RespondSuccess(w, r, map[string]any{
			"users":          userList,
			"unseenMessages": unseen,
		})
	}
}

// HandleGetConversation returns the history with the selected user and, as a
// side effect, marks every message from that user as seen.
func HandleGetConversation(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := CurrentUser(r)
		if current == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		peerID := chi.URLParam(r, "id")
		if peerID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		messages, err := deps.Messages.OpenConversation(r.Context(), current.ID, peerID)
		if err != nil {
			logx.Error(err, "failed to open conversation", "user_id", current.ID, "peer_id", peerID)
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"messages": messages,
		})
	}
}

// HandleMarkSeen marks a single message as seen by id. An unknown id is
// success with a null message.
func HandleMarkSeen(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := CurrentUser(r)
		if current == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		messageID := chi.URLParam(r, "id")

		marked, err := deps.Messages.MarkSeen(r.Context(), messageID)
		if err != nil {
			logx.Error(err, "failed to mark message seen", "message_id", messageID)
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message": marked,
		})
	}
}

type SendMessageInput struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// HandleSendMessage persists a message to the user in the URL and pushes it
// live when they are online. The image, when present, is a base64 data URI
// and wins over text.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := CurrentUser(r)
		if current == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		receiverID := chi.URLParam(r, "id")
		if receiverID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		var input SendMessageInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var content chat.Content
		switch {
		case input.Image != "":
			data, mimeType, customErr := storage.DecodeDataURI(input.Image)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			content = chat.ImageContent(data, mimeType)

		case input.Text != "":
			content = chat.TextContent(input.Text)

		default:
			resp.RespondError(w, r, errs.NewError(errs.ErrEmptyMessage))
			return
		}

		newMessage, customErr := deps.Dispatcher.Send(r.Context(), current.ID, receiverID, content)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"newMessage": newMessage,
		})
	}
}
