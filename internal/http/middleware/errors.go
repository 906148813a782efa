package middleware

import (
	"errors"

	"github.com/OwaisIslam/living-real/internal/platform/apierr"
)

var errNotLoggedIn = errors.New(apierr.MsgNotLoggedIn)
