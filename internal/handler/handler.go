package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/notifier"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/repository"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository *repository.Repository
	translator ut.Translator
	notifier   *notifier.Notifier

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, noti *notifier.Notifier) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		notifier:   noti,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/assignments", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateAssignment)
			r.Get("/", h.GetAssignments)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.assignment)
				r.Get("/recipients", h.GetAssignmentRecipients)
			})
		})

		r.Route("/assignment-recipients/{id}", func(r chi.Router) {
			r.Use(h.assignmentRecipient)
			// 两条更新路径：分配人路径和接收人自助路径
			r.Put("/status", h.UpdateRecipientStatus)
			r.Put("/self-update", h.SelfUpdateRecipient)
		})
	})
}
