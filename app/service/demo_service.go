// Package service holds the demo application's service beans.
package service

import (
	"github.com/km-arc/go-mvc/framework/beans"
)

// IDemoService greets by name. DemoService is reachable in the container
// under "app.service.IDemoService".
type IDemoService interface {
	Get(name string) string
}

// DemoService is the default IDemoService.
type DemoService struct {
	beans.Service
}

func init() {
	beans.RegisterInterface("app.service", (*IDemoService)(nil))
	beans.Register("app.service", (*DemoService)(nil))
}

func (s *DemoService) Get(name string) string {
	return "My name is " + name
}
