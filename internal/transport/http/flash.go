package http

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const sessionName = "session"

const (
	flashDanger  = "danger"
	flashWarning = "warning"
	flashSuccess = "success"
)

var flashCategories = []string{flashDanger, flashWarning, flashSuccess}

type flash struct {
	Category string
	Message  string
}

func addFlash(c echo.Context, category, message string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}

	sess.AddFlash(message, category)

	return sess.Save(c.Request(), c.Response())
}

// popFlashes забирает накопленные сообщения и очищает их в сессии
func popFlashes(c echo.Context) []flash {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}

	var out []flash
	for _, category := range flashCategories {
		for _, v := range sess.Flashes(category) {
			if msg, ok := v.(string); ok {
				out = append(out, flash{Category: category, Message: msg})
			}
		}
	}

	if len(out) > 0 {
		_ = sess.Save(c.Request(), c.Response())
	}

	return out
}
