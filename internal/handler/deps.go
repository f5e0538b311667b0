package handler

import (
	"awesomechat/internal/app/auth"
	"awesomechat/internal/app/directory"
	"awesomechat/internal/app/feeds"
	"awesomechat/internal/app/friends"
	"awesomechat/internal/app/presence"
	"awesomechat/internal/app/private"
	"awesomechat/internal/app/room"
	"awesomechat/internal/app/storage"
	"awesomechat/internal/configs"
)

// AppDeps bundles the injected services every handler closes over.
// There is no ambient singleton; each controller receives its collaborators here.
type AppDeps struct {
	Config   *configs.AppConfig
	Auth     *auth.Gateway
	Users    directory.UserStore
	Rooms    *room.Service
	Private  *private.Service
	Friends  *friends.Service
	Feeds    *feeds.Service
	Presence *presence.Tracker

	// StorageService holds avatar object storage. Nil when avatar storage is
	// not configured (development).
	StorageService storage.StorageService
}
