package main

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	apihttp "stadium/api/api/http"
	"stadium/api/config"
	"stadium/api/log"
	"stadium/api/system"
)

func main() {
	_ = godotenv.Load()

	if err := config.Init("config.yaml"); err != nil {
		panic(err)
	}
	conf := config.GetConfig()
	log.Init(conf.Log.File, conf.Log.Level)

	if err := system.Init(); err != nil {
		log.Fatal("database init failed", err)
	}
	if err := system.InitGrid(); err != nil {
		log.Fatal("grid init failed", err)
	}

	gin.SetMode(conf.Server.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	apihttp.Routers(engine.Group("/api"))

	addr := fmt.Sprintf(":%d", conf.Server.Port)
	log.Infof("stadium map api listening on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatal("server exited", err)
	}
}
