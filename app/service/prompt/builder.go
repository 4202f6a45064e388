package prompt

import (
	"context"
	"fmt"
	"strings"

	"gracebot/app/service/configcache"

	_ "embed"

	"github.com/samber/do"
)

//go:embed system_prompt.txt
var systemPromptTemplate string

const scheduleDocID = "bot_schedule"

// Builder assembles the system prompt from the static sales policy and live
// schedule configuration.
type Builder struct {
	configSvc *configcache.Service
}

func New(di *do.Injector) (*Builder, error) {
	return &Builder{
		configSvc: do.MustInvoke[*configcache.Service](di),
	}, nil
}

// NewBuilder wires a builder directly, bypassing the injector.
func NewBuilder(configSvc *configcache.Service) *Builder {
	return &Builder{configSvc: configSvc}
}

// Build renders the system prompt with the current schedule values. The
// policy text itself is fixed, only the schedule block is dynamic.
func (b *Builder) Build(ctx context.Context) string {
	scheduleData := b.configSvc.FetchMap(ctx, scheduleDocID, map[string]any{})

	schedule, ok := scheduleData["schedule"].(string)
	if !ok || schedule == "" {
		schedule = "Check FB Group"
	}

	note, _ := scheduleData["schedule_note"].(string)

	scheduleText := strings.TrimSpace(fmt.Sprintf("%s %s", schedule, note))

	return strings.ReplaceAll(systemPromptTemplate, "{schedule}", scheduleText)
}
