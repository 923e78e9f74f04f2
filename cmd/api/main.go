package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wnzid/posterscoop-backend/internal/aws"
	"github.com/wnzid/posterscoop-backend/internal/blob"
	"github.com/wnzid/posterscoop-backend/internal/db"
	"github.com/wnzid/posterscoop-backend/internal/handlers"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://posterscoop.studio",
			"https://www.posterscoop.studio",
			"https://posterscoop-frontend.fly.dev",
			"http://localhost:3000",
			"http://localhost:3004",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
	}))

	// behind the proxy, redirect plain-http traffic to https
	r.Use(func(c *gin.Context) {
		proto := c.GetHeader("X-Forwarded-Proto")
		host := c.Request.Host
		if proto == "http" && host != "" && !isLocalHost(host) {
			c.Redirect(http.StatusMovedPermanently, "https://"+host+c.Request.URL.RequestURI())
			c.Abort()
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func isLocalHost(host string) bool {
	return strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1")
}

func main() {
	ctx := context.Background()

	gdb, err := db.Open(db.FromEnv())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	awsCfg := aws.FromEnv()
	if err := awsCfg.Validate(); err != nil {
		log.Fatalf("invalid storage config: %v", err)
	}
	clients, err := aws.NewAWSClients(ctx, awsCfg)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	cfg := handlers.HandlerConfig{
		DB:     gdb,
		Blob:   blob.NewStore(clients.S3, clients.Presigner, awsCfg.Bucket),
		Bucket: awsCfg.Bucket,
	}
	if awsCfg.QueueURL != "" {
		cfg.Publisher = aws.NewPublisher(clients.SQS, awsCfg.QueueURL)
	}

	r := setupRouter(cfg)

	// if RUN_LOCAL is set, run a local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	adapter := ginadapter.New(r)
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
