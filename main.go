package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"recruitbase/account"
	"recruitbase/article"
	"recruitbase/bizerror"
	"recruitbase/candidature"
	"recruitbase/client/es"
	"recruitbase/client/oss"
	"recruitbase/hire"
	"recruitbase/infra/tracing"
	"recruitbase/misc"
	"recruitbase/newsletter"
	"recruitbase/persistence"
	"recruitbase/search"
	"recruitbase/sector"
	"recruitbase/session"
	"recruitbase/sessions"
	"recruitbase/tag"
)

func main() {
	log.Println("service start")

	if closer := tracing.Bootstrap(misc.ServiceName); closer != nil {
		defer closer.Close()
	}

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	if err := migrate(ds); err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}
	if err := account.DefaultSecurityConfiguration(); err != nil {
		log.Fatalf("security bootstrap failed %v\n", err)
	}

	if os.Getenv("ELASTICSEARCH_URL") != "" {
		es.ActiveESClient = es.CreateClientFromEnv()
	}
	oss.Bootstrap()

	// tag mutations invalidate article lists which embed tag names
	tag.TagsChangedHooks = append(tag.TagsChangedHooks, article.InvalidateListCache)
	// keep the search index in step with article lifecycle
	article.ArticlePublishedHooks = append(article.ArticlePublishedHooks, search.IndexArticle)
	article.ArticleRemovedHooks = append(article.ArticleRemovedHooks, search.RemoveArticle)

	sender := newsletter.NewSender(newsletter.BuildMailerFromEnv())
	newsletter.SendNewsletterFunc = sender.SendNewsletter

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling(), tracing.TracingIngress())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, misc.ServiceName)
	})

	sessions.RegisterSessionsHandler(engine)
	sessions.RegisterSessionHandler(engine, session.SimpleAuthFilter())

	article.RegisterPublicArticlesRestAPI(engine, session.OptionalAuthFilter())
	search.RegisterSearchRestAPI(engine)
	candidature.RegisterPublicCandidaturesRestAPI(engine)
	hire.RegisterPublicHiresRestAPI(engine)
	newsletter.RegisterPublicNewsletterRestAPI(engine)

	auth := session.SimpleAuthFilter()
	account.RegisterUsersRestAPI(engine, auth)
	article.RegisterArticlesRestAPI(engine, auth)
	tag.RegisterTagsRestAPI(engine, auth)
	sector.RegisterSectorsRestAPI(engine, auth)
	hire.RegisterHiresRestAPI(engine, auth)
	candidature.RegisterCandidaturesRestAPI(engine, auth)
	newsletter.RegisterNewslettersRestAPI(engine, auth)

	if err := engine.Run(":80"); err != nil {
		panic(err)
	}
}

func migrate(ds *persistence.DataSourceManager) error {
	db := ds.GormDB(context.Background())
	return db.AutoMigrate(
		&account.User{}, &account.UserRoleAssignment{},
		&tag.Tag{}, &sector.Sector{},
		&article.Article{},
		&candidature.Candidature{}, &hire.Hire{},
		&newsletter.Subscriber{}, &newsletter.Newsletter{},
	).Error
}
