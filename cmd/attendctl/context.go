package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"faceattend/internal/attendance"
	"faceattend/internal/config"
	"faceattend/internal/faceclient"
	"faceattend/internal/notice"
	"faceattend/internal/store"
)

type commandContext struct {
	backendFlag *string
	timeoutFlag *time.Duration
	jsonFlag    *bool

	configOnce sync.Once
	config     config.App

	redisOnce sync.Once
	redis     *store.Redis
}

func newCommandContext(backendFlag *string, timeoutFlag *time.Duration, jsonFlag *bool) *commandContext {
	return &commandContext{
		backendFlag: backendFlag,
		timeoutFlag: timeoutFlag,
		jsonFlag:    jsonFlag,
	}
}

func (c *commandContext) cfg() config.App {
	c.configOnce.Do(func() {
		c.config = config.Load()
		if c.backendFlag != nil && strings.TrimSpace(*c.backendFlag) != "" {
			c.config.BackendURL = strings.TrimSpace(*c.backendFlag)
		}
		if c.timeoutFlag != nil && *c.timeoutFlag > 0 {
			c.config.BackendTimeout = *c.timeoutFlag
		}
	})
	return c.config
}

func (c *commandContext) json() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) client() *faceclient.Client {
	cfg := c.cfg()
	return faceclient.New(cfg.BackendURL, cfg.BackendTimeout)
}

func (c *commandContext) redisBus() *notice.Redis {
	cfg := c.cfg()
	c.redisOnce.Do(func() {
		c.redis = store.NewRedis(cfg.RedisAddr)
	})
	return notice.NewRedis(c.redis.Client, cfg.NoticeKey, cfg.NoticeBuffer)
}

func (c *commandContext) close() {
	if c.redis != nil {
		_ = c.redis.Close()
	}
}

// controller builds a Controller whose notices are printed to out and, when
// the console runs with the Redis notice backend, shared with it.
func (c *commandContext) controller(out io.Writer) *attendance.Controller {
	n := &printNotifier{out: out}
	if c.cfg().RedisNotices() {
		n.forward = c.redisBus()
	}
	return attendance.NewController(c.client(), n, attendance.WithLogger(log.New(io.Discard, "", 0)))
}

type printNotifier struct {
	out     io.Writer
	forward attendance.Notifier
}

func (p *printNotifier) Publish(ctx context.Context, n notice.Notice) error {
	fmt.Fprintf(p.out, "[%s] %s\n", n.Level, n.Text)
	if p.forward == nil {
		return nil
	}
	return p.forward.Publish(ctx, n)
}
