package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/go-pancake/pancake/internal/engine/conf"
	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/internal/engine/router"
	"github.com/go-pancake/pancake/pkg/cache"
	"github.com/go-pancake/pancake/pkg/ctx"
	"github.com/go-pancake/pancake/pkg/database"
	"github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/id"
	"github.com/go-pancake/pancake/pkg/log"
	"github.com/go-pancake/pancake/pkg/runner"
	"gorm.io/gorm"
)

/**
 * @file: main.go
 * @description: pancake admin server
 */

var (
	configFile string
)

func init() {
	flag.StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. -conf ./conf.d/config.toml")
}

func main() {
	flag.Parse()
	printRunner()

	appConf := conf.NewConf(configFile)

	log.MustInit(&appConf.Log)

	redis, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		panic(err)
	}

	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		panic(err)
	}
	registerJoinTables(db)

	snowflake, err := id.NewSnowflake(appConf.Snowflake.WorkerId)
	if err != nil {
		panic(err)
	}

	appCtx := ctx.NewContext(context.Background(), redis, db, log.GetLogger())

	route := router.NewRouter(&appConf.Http, appCtx, snowflake)

	// http srv
	httpSrv := http.NewHttp(appConf.Http)
	httpClean := httpSrv.Server(route.Router())

	httpClean()
}

// registerJoinTables 注册多对多关联的显式连接模型, 连接表名不再套用全局前缀规则
func registerJoinTables(db *gorm.DB) {
	if err := db.SetupJoinTable(&model.User{}, "Roles", &model.UserRoleBinding{}); err != nil {
		panic(err)
	}
	if err := db.SetupJoinTable(&model.Role{}, "Menus", &model.RoleMenuBinding{}); err != nil {
		panic(err)
	}
}

func printRunner() {
	fmt.Println("runner.pwd:", runner.Pwd)
	fmt.Println("runner.hostname:", runner.Hostname)
}
