package main

import (
	"fmt"

	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/config"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/migration"
)

func main() {
	conf := config.Load()
	cmd := migration.MigrateCommand(conf.MySQL.DSN())
	if err := cmd.Execute(); err != nil {
		fmt.Println("[ERROR]", err)
	}
}
