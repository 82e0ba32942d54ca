package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/GoArmGo/WardrobeApp/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// runServer поднимает HTTP API и блокируется до отмены контекста
func (a *App) runServer(ctx context.Context) error {
	authHandler := handler.NewAuthHandler(a.userUseCase, a.sessions, a.logger)
	userHandler := handler.NewUserHandler(a.userUseCase, a.logger)
	lookHandler := handler.NewLookHandler(a.lookUseCase, a.logger)
	pieceHandler := handler.NewPieceHandler(a.pieceUseCase, a.logger)
	categoryHandler := handler.NewCategoryHandler(a.categoryUseCase, a.logger)
	imageHandler := handler.NewImageHandler(a.fileStorage, a.logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.Config.RequestTimeout))
	r.Use(handler.RequestLogger(a.logger))
	r.Use(handler.LoadUser(a.sessions, a.userStorage, a.logger))

	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)
	r.Get("/me", authHandler.Me)

	r.Get("/img/{name}", imageHandler.GetImage)

	// каталог читается и анонимно, inWardrobe появляется при наличии сессии
	r.Get("/pieces", pieceHandler.FindPieces)
	r.Get("/piece-categories", categoryHandler.GetTree)

	// маршруты текущего пользователя и его множеств
	r.Group(func(r chi.Router) {
		r.Use(handler.RequireAuth(a.logger))

		r.Put("/me/wardrobe/{id}", userHandler.AddToWardrobe)
		r.Delete("/me/wardrobe/{id}", userHandler.RemoveFromWardrobe)
		r.Put("/me/favorites/{id}", userHandler.AddToFavorites)
		r.Delete("/me/favorites/{id}", userHandler.RemoveFromFavorites)
		r.Put("/me/hidden-looks/{id}", userHandler.HideLook)
		r.Delete("/me/hidden-looks/{id}", userHandler.UnhideLook)

		r.Get("/looks", lookHandler.FindLooks)
		r.Post("/looks", lookHandler.CreateLook)
		r.Get("/looks/{id}", lookHandler.GetLook)
		r.Delete("/looks/{id}", lookHandler.DeleteLook)
	})

	// административные маршруты каталога
	r.Group(func(r chi.Router) {
		r.Use(handler.RequireAdmin(a.logger))

		r.Post("/pieces", pieceHandler.CreatePiece)
		r.Patch("/pieces/{id}", pieceHandler.UpdatePiece)
		r.Delete("/pieces/{id}", pieceHandler.DeletePiece)

		r.Post("/piece-categories", categoryHandler.CreateCategory)
		r.Patch("/piece-categories/{id}", categoryHandler.RenameCategory)
		r.Delete("/piece-categories/{id}", categoryHandler.DeleteCategory)
	})

	serverAddr := fmt.Sprintf(":%s", a.Config.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка HTTP сервера: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("http server stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("http server stopped")
	return nil
}
