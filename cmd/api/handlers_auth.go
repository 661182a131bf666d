package main

import (
	"net/http"

	"github.com/seralvarez/picstash/pkg/tracing"
)

// Register a new account. Account data must be provided in the JSON body. On
// success a welcome email is sent in the background, without ever delaying
// or failing the registration itself.
func (app *application) registerHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := readJSON(w, r, &input)
	if err != nil {
		app.malformedJSONResponse(w, r, err)
		return
	}

	user, err := app.users.Register(r.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		app.encodeError(w, r, err)
		return
	}

	if app.config.Smtp.Enabled {
		logger := app.logger.With("id", tracing.TraceFromRequestCtx(r).ID)
		app.background(func() {
			mailData := map[string]interface{}{
				"username": user.Username,
				"userID":   user.ID,
			}
			err := app.mailer.Send(user.Email, "user_welcome.gohtml", mailData)
			if err != nil {
				logger.Errorw("sending welcome mail", "err", err)
				return
			}
			logger.Infof("welcome mail sent")
		})
	}

	app.sendJSON(w, r, http.StatusCreated, env{
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
	}, nil)
}

// Exchange a username/password pair for a bearer token.
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	err := readJSON(w, r, &input)
	if err != nil {
		app.malformedJSONResponse(w, r, err)
		return
	}

	token, err := app.users.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		app.encodeError(w, r, err)
		return
	}

	app.sendJSON(w, r, http.StatusOK, env{
		"token":     token.Token,
		"expiresIn": token.ExpiresIn,
		"tokenType": token.TokenType,
	}, nil)
}
