package handler

import (
	"quickchat/internal/app/chat"
	"quickchat/internal/app/message"
	"quickchat/internal/app/storage"
	"quickchat/internal/app/user"
	"quickchat/internal/configs"
)

// AppDeps bundles the collaborators the HTTP handlers need.
type AppDeps struct {
	Config     *configs.AppConfig
	Hub        *chat.Hub
	Dispatcher *chat.Dispatcher
	Users      user.Store
	Messages   *message.Service
	Images     storage.ImageService
}
