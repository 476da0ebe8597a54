package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"wechat_article_proxy/config"
	"wechat_article_proxy/generator"
	"wechat_article_proxy/publisher"
)

const healthMessage = "微信公众号代理服务器运行中"

// Deps are the collaborators the handlers call into.
type Deps struct {
	Agent    *generator.Agent
	WeChat   *publisher.Client
	Uploader publisher.ImageUploader
	Logger   *logrus.Logger
}

type Server struct {
	cfg      config.Config
	agent    *generator.Agent
	wechat   *publisher.Client
	uploader publisher.ImageUploader
	validate *validator.Validate
	logger   *logrus.Logger
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Agent == nil {
		return nil, errors.New("generator agent required")
	}
	if deps.WeChat == nil {
		return nil, errors.New("wechat client required")
	}
	if deps.Uploader == nil {
		deps.Uploader = publisher.PlaceholderUploader{}
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Server{
		cfg:      cfg,
		agent:    deps.Agent,
		wechat:   deps.WeChat,
		uploader: deps.Uploader,
		validate: validator.New(),
		logger:   deps.Logger,
	}, nil
}

// Routes maps exact (method, path) pairs to handlers. Everything else,
// including a known path with the wrong method, is a 404.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/index.html", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/wechat/token", s.handleToken).Methods(http.MethodPost)
	r.HandleFunc("/api/wechat/upload-image-from-url", s.handleUploadImage).Methods(http.MethodPost)
	r.HandleFunc("/api/wechat/draft/add", s.handleAddDraft).Methods(http.MethodPost)
	r.HandleFunc("/api/wechat/draft/batchget", s.handleListDrafts).Methods(http.MethodPost)
	r.HandleFunc("/api/wechat/render", s.handleRender).Methods(http.MethodPost)
	r.HandleFunc("/api/ai/generate", s.handleGenerate).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(http.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(http.NotFound)

	return s.logMiddleware(preflight(r))
}
