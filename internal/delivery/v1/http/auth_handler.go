package http

import (
	"net/http"

	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
)

type AuthHandler struct {
	authUsecase usecase.AuthUC
	logger      logger.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUC, logger logger.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, logger: logger}
}

// register
//
//	@Summary		Регистрация
//	@Description	Создаёт пользователя с ролью user и выдаёт токен
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RegisterRequest	true	"Данные пользователя"
//	@Success		201		{object}	DataResponse{data=TokenResponse}
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/register [post]
func (a *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := a.authUsecase.Register(r.Context(), &usecase.RegisterReq{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		a.logger.Warnf("register failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, DataResponse{Message: "User registered successfully", Data: toTokenResponse(res)})
}

// login
//
//	@Summary	Вход
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		LoginRequest	true	"Email и пароль"
//	@Success	200		{object}	DataResponse{data=TokenResponse}
//	@Failure	401		{object}	ErrorResponse	"Неверный email или пароль"
//	@Router		/login [post]
func (a *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := a.authUsecase.Login(r.Context(), &usecase.LoginReq{Email: req.Email, Password: req.Password})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Message: "Logged in successfully", Data: toTokenResponse(res)})
}

// logout
//
//	@Summary	Выход
//	@Tags		auth
//	@Security	BearerAuth
//	@Success	200	{object}	DataResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/logout [post]
func (a *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	if err := a.authUsecase.Logout(r.Context(), caller); err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Message: "Logged out successfully"})
}

// me
//
//	@Summary	Текущий пользователь
//	@Tags		auth
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	DataResponse{data=UserResponse}
//	@Failure	401	{object}	ErrorResponse
//	@Router		/me [get]
func (a *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	user, err := a.authUsecase.Me(r.Context(), caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Data: toUserResponse(user)})
}
