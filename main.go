package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/mysql/v2"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/board"
	"tripmate/internal/comment"
	"tripmate/internal/config"
	"tripmate/internal/dashboard"
	"tripmate/internal/database"
	"tripmate/internal/kakaomap"
	"tripmate/internal/member"
	"tripmate/internal/middleware"
	"tripmate/internal/ranking"
	"tripmate/internal/scheduler"
	"tripmate/internal/slackbot"
	"tripmate/internal/support"
	"tripmate/internal/token"
	"tripmate/internal/upload"
)

func main() {
	var envFile, paramKey, region string
	flag.StringVar(&envFile, "env", ".env", "환경 변수 파일 (없으면 무시)")
	flag.StringVar(&paramKey, "conf", "", "AWS Parameter Store 키 (예: /service/tripmate)")
	flag.StringVar(&region, "region", "ap-northeast-2", "AWS 리전")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// 1. 설정 로드
	conf, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("설정 로드 실패: %v", err)
	}
	if paramKey != "" {
		if err := conf.OverlayParamStore(region, paramKey); err != nil {
			log.Fatalf("%v", err)
		}
		log.Infof("파라미터 스토어(%s) 설정을 적용했습니다.", paramKey)
	}

	// 2. 마이그레이션 / DB 연결
	dbi := database.DBI{
		User:     conf.Repository.User,
		Password: conf.Repository.Password,
		Endpoint: conf.Repository.Endpoint,
		Port:     conf.Repository.Port,
		Database: conf.Repository.Database,
	}
	if conf.Repository.Migrations != "" {
		if err := database.Migrate(dbi, conf.Repository.Migrations); err != nil {
			log.Fatalf("%v", err)
		}
	}

	dbo, err := database.CreateConnection(dbi)
	if err != nil {
		log.Fatalf("Repository Connection failed. %v", err)
	}
	defer dbo.Close()
	log.Info("Successfully connected to the database.")

	// 3. 세션 / 토큰
	sessionStore := session.New(session.Config{
		Storage: mysql.New(mysql.Config{
			Db:    dbo.DB,
			Table: conf.Session.Table,
		}),
		Expiration:     conf.Session.Expiration,
		CookieName:     conf.Session.CookieName,
		CookieSecure:   conf.Session.Secure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
	tokens := token.NewService(conf.JWT.Secret, conf.JWT.AccessTTL)

	// 4. 의존성 조립
	notifier := slackbot.NewNotifier(conf.Slack.BotToken, conf.Slack.ChannelID)
	if !notifier.Enabled() {
		log.Warn("Slack 봇 토큰/채널이 없어 관리자 알림이 비활성화됩니다.")
	}

	// Member
	memberStore := member.NewStore(dbo)
	memberService := member.NewService(memberStore)
	memberHandler := member.NewMemberHandler(memberService, sessionStore, tokens)

	// Board
	boardStore := board.NewStore(dbo)
	boardService := board.NewService(boardStore, memberService)
	boardHandler := board.NewBoardHandler(boardService)

	// Comment
	commentStore := comment.NewStore(dbo)
	commentService := comment.NewService(commentStore, boardService, memberService)
	commentHandler := comment.NewCommentHandler(commentService)

	// Upload
	storage, err := upload.NewStorage(context.Background(), conf.Upload)
	if err != nil {
		log.Fatalf("업로드 저장소 초기화 실패: %v", err)
	}
	uploadHandler := upload.NewUploadHandler(upload.NewService(storage, conf.Upload.MaxBytes))

	// Support
	supportStore := support.NewStore(dbo)
	supportService := support.NewService(supportStore, boardService, commentService, notifier)
	supportHandler := support.NewSupportHandler(supportService)

	// Kakaomap
	placeHandler := kakaomap.NewPlaceHandler(kakaomap.NewService(kakaomap.NewStore(dbo)))

	// Ranking
	rankingFetcher := ranking.NewAPIClient(conf.Ranking.APIURL, conf.Ranking.ServiceKey, conf.Ranking.Timeout)
	rankingService := ranking.NewService(ranking.NewStore(dbo), rankingFetcher)
	rankingHandler := ranking.NewRankingHandler(rankingService)

	// Dashboard
	dashboardService := dashboard.NewService(memberStore, supportService, boardService, commentService)
	dashboardHandler := dashboard.NewDashboardHandler(dashboardService)

	// Scheduler
	jobs := scheduler.NewScheduler(conf.Ranking.Cron, rankingService)

	// 5. Fiber 앱
	app := fiber.New(fiber.Config{
		AppName:   "tripmate",
		BodyLimit: int(conf.Upload.MaxBytes)*10 + 1<<20,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     conf.Server.AllowOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	// 업로드 이미지
	if local, ok := storage.(*upload.LocalStorage); ok {
		app.Static("/pic", local.Dir())
	} else {
		app.Get("/pic/:name", uploadHandler.HandleRedirect)
	}

	// 6. 라우트
	log.Info("라우트를 설정합니다...")
	authRequired := middleware.AuthMiddleware(sessionStore, tokens, memberStore)
	authOptional := middleware.OptionalAuth(sessionStore, tokens, memberStore)

	api := app.Group("/api")

	// [회원]
	members := api.Group("/members")
	{
		members.Post("/signup", memberHandler.HandleSignup)
		members.Get("/check-email", memberHandler.HandleCheckEmail)
		members.Get("/check-nickname", memberHandler.HandleCheckNickname)
		members.Post("/login", memberHandler.HandleLogin)
		members.Post("/logout", memberHandler.HandleLogout)
		members.Get("/me", authRequired, memberHandler.HandleMe)
		members.Put("/me", authRequired, memberHandler.HandleUpdateMe)
		members.Delete("/me", authRequired, memberHandler.HandleWithdraw)
		members.Post("/me/otp/setup", authRequired, memberHandler.HandleSetupOTP)
		members.Post("/me/otp/confirm", authRequired, memberHandler.HandleConfirmOTP)
	}

	// [게시판 / 댓글]
	boards := api.Group("/boards/:board")
	{
		boards.Get("/posts", authOptional, boardHandler.HandleList)
		boards.Get("/popular", boardHandler.HandlePopular)
		boards.Get("/bookmarks", authRequired, boardHandler.HandleBookmarks)
		boards.Get("/posts/:id", authOptional, boardHandler.HandleDetail)
		boards.Post("/posts", authRequired, boardHandler.HandleCreate)
		boards.Put("/posts/:id", authRequired, boardHandler.HandleUpdate)
		boards.Delete("/posts/:id", authRequired, boardHandler.HandleDelete)
		boards.Post("/posts/:id/like", authRequired, boardHandler.HandleLike)
		boards.Post("/posts/:id/bookmark", authRequired, boardHandler.HandleBookmark)

		boards.Get("/posts/:id/comments", commentHandler.HandleList)
		boards.Post("/posts/:id/comments", authRequired, commentHandler.HandleCreate)
	}
	api.Put("/comments/:id", authRequired, commentHandler.HandleUpdate)
	api.Delete("/comments/:id", authRequired, commentHandler.HandleDelete)

	// [업로드]
	api.Post("/uploads", authRequired, uploadHandler.HandleUpload)

	// [문의 / 신고]
	api.Post("/inquiries", authRequired, supportHandler.HandleCreateInquiry)
	api.Get("/inquiries/me", authRequired, supportHandler.HandleMyInquiries)
	api.Get("/inquiries/:id", authRequired, supportHandler.HandleGetInquiry)
	api.Post("/reports", authRequired, supportHandler.HandleCreateReport)

	// [장소 / 순위]
	api.Get("/places", placeHandler.HandleList)
	api.Get("/places/nearby", placeHandler.HandleNearby)
	api.Get("/places/:id", placeHandler.HandleGet)
	api.Get("/rankings", rankingHandler.HandleList)

	// [관리자]
	admin := api.Group("/admin", authRequired, middleware.AdminOnlyMiddleware())
	{
		admin.Get("/dashboard", dashboardHandler.HandleShowDashboard)

		admin.Get("/members", memberHandler.HandleAdminList)
		admin.Put("/members/:id/role", memberHandler.HandleChangeRole)

		admin.Get("/inquiries", supportHandler.HandleAdminInquiries)
		admin.Put("/inquiries/:id/reply", supportHandler.HandleReplyInquiry)
		admin.Get("/reports", supportHandler.HandleAdminReports)
		admin.Put("/reports/:id", supportHandler.HandleProcessReport)

		admin.Post("/places", placeHandler.HandleCreate)
		admin.Put("/places/:id", placeHandler.HandleUpdate)
		admin.Delete("/places/:id", placeHandler.HandleDelete)

		admin.Post("/rankings/refresh", rankingHandler.HandleRefresh)
	}

	// 7. 서버 시작 (우아한 종료)
	if err := jobs.Start(); err != nil {
		log.Fatalf("스케줄러 시작 실패: %v", err)
	}

	go func() {
		log.Infof("tripmate 서버(HTTP)가 [::]:%s 포트에서 시작됩니다.", conf.Server.Port)
		if err := app.Listen(fmt.Sprintf(":%s", conf.Server.Port)); err != nil {
			log.Panicf("HTTP 서버 Listen 실패: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("tripmate 서버 종료 신호 수신...")

	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	jobs.Stop(ctx)
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Errorf("HTTP 서버 Shutdown 실패: %v", err)
	}

	log.Info("tripmate 서버가 정상적으로 종료되었습니다.")
}
