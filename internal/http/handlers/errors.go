package handlers

import "github.com/OwaisIslam/living-real/internal/platform/apierr"

var errNotLoggedIn = apierr.Authentication(apierr.MsgNotLoggedIn)
