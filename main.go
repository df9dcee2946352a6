package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/escolaranieri/galeriabackend/config"
	"github.com/escolaranieri/galeriabackend/database"
	"github.com/escolaranieri/galeriabackend/handlers"
	"github.com/escolaranieri/galeriabackend/media"
	"github.com/escolaranieri/galeriabackend/permissions"
	"github.com/escolaranieri/galeriabackend/repository"
	"github.com/escolaranieri/galeriabackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: no .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.OriginalsPath, cfg.ThumbnailsPath, cfg.AvatarsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: failed to migrate database: %v", err)
	}
	if err := database.Seed(db, cfg.PublicGroupName); err != nil {
		log.Fatalf("FATAL: failed to seed database: %v", err)
	}

	userRepo := repository.NewGormUserRepository(db, cfg.PublicGroupName)
	profileRepo := repository.NewGormProfileRepository(db)
	roleRepo := repository.NewGormRoleRepository(db)
	groupRepo := repository.NewGormGroupRepository(db)
	galleryRepo := repository.NewGormGalleryRepository(db)
	imageRepo := repository.NewGormImageRepository(db)

	// the public group is created by Seed, so it always resolves here; a
	// missing group means nothing is publicly visible rather than an error
	var publicGroupID uint
	if publicGroup, err := groupRepo.GetByName(cfg.PublicGroupName); err == nil {
		publicGroupID = publicGroup.ID
	} else {
		log.Printf("WARNING: public group %q not found, no gallery will be guest visible", cfg.PublicGroupName)
	}

	engine := permissions.NewEngine(repository.NewGormMembershipSource(db), publicGroupID)

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypeOriginal:  filepath.Base(cfg.OriginalsPath),
		media.AssetTypeThumbnail: filepath.Base(cfg.ThumbnailsPath),
		media.AssetTypeAvatar:    filepath.Base(cfg.AvatarsPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize media store: %v", err)
	}

	thumbGen := workers.NewThumbnailGenerator(imageRepo, mediaStore, cfg.ThumbnailMaxSize, cfg.ThumbnailQueueSize, cfg.NumThumbnailWorkers)
	defer thumbGen.Stop()
	thumbGen.RequeuePending()

	authHandler := handlers.NewAuthHandler(userRepo, cfg)
	userHandler := handlers.NewUserHandler(userRepo, engine, mediaStore)
	profileHandler := handlers.NewProfileHandler(profileRepo, engine)
	groupHandler := handlers.NewGroupHandler(groupRepo, engine)
	galleryHandler := handlers.NewGalleryHandler(galleryRepo, groupRepo, engine)
	imageHandler := handlers.NewImageHandler(imageRepo, galleryRepo, engine, mediaStore, thumbGen)
	roleHandler := handlers.NewRoleHandler(roleRepo, userRepo, engine)
	permissionsHandler := handlers.NewPermissionsHandler(engine)

	jwtSecret := []byte(cfg.JWTSecret)
	requireAuth := handlers.AuthMiddleware(jwtSecret, userRepo)
	optionalAuth := handlers.OptionalAuthMiddleware(jwtSecret, userRepo)

	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(requireAuth).Get("/me", authHandler.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Route("/{userID}", func(r chi.Router) {
					r.Get("/", userHandler.Get)
					r.Put("/", userHandler.Update)
					r.Delete("/", userHandler.Delete)
					r.Put("/avatar", userHandler.UploadAvatar)
				})
			})

			r.Route("/profiles/{profileID}", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Put("/", profileHandler.Update)
			})

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", groupHandler.List)
				r.Post("/", groupHandler.Create)
				r.Route("/{groupID}", func(r chi.Router) {
					r.Get("/", groupHandler.Get)
					r.Put("/", groupHandler.Update)
					r.Delete("/", groupHandler.Delete)
					r.Get("/users", groupHandler.Members)
					r.Put("/users/{userID}", groupHandler.AddMember)
					r.Delete("/users/{userID}", groupHandler.RemoveMember)
				})
			})

			r.Route("/roles", func(r chi.Router) {
				r.Get("/", roleHandler.List)
				r.Route("/{roleID}", func(r chi.Router) {
					r.Get("/users", roleHandler.Users)
					r.Put("/users/{userID}", roleHandler.Assign)
					r.Delete("/users/{userID}", roleHandler.Revoke)
				})
			})

			r.Get("/permissions", permissionsHandler.ListDefinedChecks)

			// method-level registration here: the GET variants of these
			// paths live in the guest-tolerant group below
			r.Get("/galleries", galleryHandler.List)
			r.Post("/galleries", galleryHandler.Create)
			r.Put("/galleries/{galleryID}", galleryHandler.Update)
			r.Delete("/galleries/{galleryID}", galleryHandler.Delete)
			r.Put("/galleries/{galleryID}/groups/{groupID}", galleryHandler.AttachGroup)
			r.Delete("/galleries/{galleryID}/groups/{groupID}", galleryHandler.DetachGroup)
			r.Post("/galleries/{galleryID}/images", imageHandler.Upload)

			r.Put("/images/{imageID}", imageHandler.Update)
			r.Delete("/images/{imageID}", imageHandler.Delete)
		})

		// guest tolerant: public galleries are visible without a token
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/galleries/{galleryID}", galleryHandler.Get)
			r.Get("/galleries/{galleryID}/images", imageHandler.ListByGallery)
		})

		thumbnailSubDir := filepath.Base(cfg.ThumbnailsPath)
		r.Get("/"+thumbnailSubDir+"/*", handlers.AssetServer(cfg.MediaStoragePath, thumbnailSubDir))

		avatarSubDir := filepath.Base(cfg.AvatarsPath)
		r.Get("/"+avatarSubDir+"/*", handlers.AssetServer(cfg.MediaStoragePath, avatarSubDir))
	})

	log.Printf("using database: %s", cfg.DatabasePath)
	log.Printf("storing media under: %s", cfg.MediaStoragePath)
	log.Printf("server listening on %s", cfg.ListenAddr)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
