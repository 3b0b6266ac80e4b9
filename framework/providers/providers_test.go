package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/beans"
	"github.com/km-arc/go-mvc/framework/config"
	"github.com/km-arc/go-mvc/framework/container"
	"github.com/km-arc/go-mvc/framework/diag"
	"github.com/km-arc/go-mvc/framework/providers"
)

type Consumer struct {
	beans.Service

	cfg    *config.Config `autowired:""`
	Logger *zap.Logger    `autowired:"logger"`
}

func TestDefaults_BindByTypeAndName(t *testing.T) {
	cfg := &config.Config{}
	logger := zap.NewNop()

	c := container.New()
	for _, p := range providers.Defaults(cfg, logger) {
		p.Register(c)
	}

	assert.Same(t, cfg, c.Make("config"))
	assert.Same(t, cfg, c.Make("github.com/km-arc/go-mvc/framework/config.Config"))
	assert.Same(t, logger, c.Make("logger"))
	assert.Same(t, logger, c.Make("go.uber.org/zap.Logger"))
	assert.Len(t, c.Beans(), 2)
}

func TestDefaults_Autowired(t *testing.T) {
	cfg := &config.Config{}
	logger := zap.NewNop()

	cat := beans.NewCatalog()
	cat.Register("app", (*Consumer)(nil))

	c := container.New()
	for _, p := range providers.Defaults(cfg, logger) {
		p.Register(c)
	}
	report := diag.NewReport(nil)
	c.Instantiate(cat, cat.IDs(), report)
	c.Inject(cat, report)
	require.True(t, report.Empty(), "%v", report.Err())

	consumer := c.Make("consumer").(*Consumer)
	assert.Same(t, cfg, consumer.cfg)
	assert.Same(t, logger, consumer.Logger)
}
