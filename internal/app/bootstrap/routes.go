// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/sprinthub/sprinthub/internal/app/features/health"
	membersfeature "github.com/sprinthub/sprinthub/internal/app/features/members"
	projectsfeature "github.com/sprinthub/sprinthub/internal/app/features/projects"
	sprintsfeature "github.com/sprinthub/sprinthub/internal/app/features/sprints"
	storiesfeature "github.com/sprinthub/sprinthub/internal/app/features/stories"
	tasksfeature "github.com/sprinthub/sprinthub/internal/app/features/tasks"
	burndownstore "github.com/sprinthub/sprinthub/internal/app/store/burndown"
	membershipstore "github.com/sprinthub/sprinthub/internal/app/store/memberships"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	sprintstore "github.com/sprinthub/sprinthub/internal/app/store/sprints"
	storystore "github.com/sprinthub/sprinthub/internal/app/store/stories"
	taskstore "github.com/sprinthub/sprinthub/internal/app/store/tasks"
	userstore "github.com/sprinthub/sprinthub/internal/app/store/users"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"github.com/sprinthub/sprinthub/internal/app/system/burndown"
	"github.com/sprinthub/sprinthub/internal/app/system/lifecycle"
	"github.com/sprinthub/sprinthub/internal/app/system/rolesync"
	"github.com/sprinthub/sprinthub/internal/app/system/storystatus"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler. WAFFLE calls this after
// configuration, store connection, and the Startup hook have completed.
//
// All feature handlers share one set of stores over the same KV backend.
// The engines layer on top of the stores: the role synchronizer and the
// lifecycle manager own the multi-key mutation ordering, the aggregator
// and the burndown calculator own the derived state.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)

	users := userstore.New(deps.KV)
	projects := projectstore.New(deps.KV)
	stories := storystore.New(deps.KV)
	tasks := taskstore.New(deps.KV)
	sprints := sprintstore.New(deps.KV)
	members := membershipstore.New(deps.KV, logger)
	snapshots := burndownstore.New(deps.KV)

	roles := rolesync.New(users, members, logger)
	aggregator := storystatus.New(stories, tasks, logger)
	calculator := burndown.New(sprints, stories, tasks, snapshots, logger)
	manager := lifecycle.New(projects, stories, tasks, sprints, members, snapshots, roles, logger)

	r := chi.NewRouter()

	// Loads the session user into context for every request; the
	// feature routers decide whether to require one.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.KV, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	memberHandler := membersfeature.NewHandler(manager, members, users, logger)
	projectHandler := projectsfeature.NewHandler(manager, projects, members, users, logger)
	r.Mount("/projects", projectsfeature.Routes(projectHandler, memberHandler))

	storyHandler := storiesfeature.NewHandler(stories, tasks, projects, logger)
	r.Mount("/stories", storiesfeature.Routes(storyHandler))

	taskHandler := tasksfeature.NewHandler(tasks, stories, aggregator, logger)
	r.Mount("/tasks", tasksfeature.Routes(taskHandler))

	sprintHandler := sprintsfeature.NewHandler(sprints, stories, projects, calculator, logger)
	r.Mount("/sprints", sprintsfeature.Routes(sprintHandler))

	return r, nil
}
