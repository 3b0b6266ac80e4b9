package main

import (
	"fmt"
	"os"

	_ "github.com/km-arc/go-mvc/app/controller"
	"github.com/km-arc/go-mvc/framework/beans"
	"github.com/km-arc/go-mvc/framework/console"
)

func main() {
	if err := console.NewRootCommand(beans.Default).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
