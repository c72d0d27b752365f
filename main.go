package main

import (
	"time"

	"github.com/strategiq/website-backend/config"
	"github.com/strategiq/website-backend/models"
	"github.com/strategiq/website-backend/routes"
	"github.com/strategiq/website-backend/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Contact{}, &models.Newsletter{}, &models.FileRecord{}, &models.PageView{})

	r := routes.SetupRouter(db)

	// Background convergence of file rows and disk blobs (best-effort)
	utils.StartBlobReconciler(db, cfg.UploadDir, 10*time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
