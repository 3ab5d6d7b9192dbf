package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/datashield/datashield-go/internal/models"
)

// Server is an in-process data repository. Fields are configured before
// the first connection and describe what the repository holds and how
// it misbehaves.
type Server struct {
	Name string

	// Users maps user names to passwords; Tokens lists valid tokens.
	// No authentication is done when both are empty.
	Users  map[string]string
	Tokens []string

	Tables     []string
	Resources  []string
	Profiles   []string
	Packages   []models.Package
	Methods    map[models.MethodKind][]models.Method
	Aggregates map[string]any // expression -> value
	Async      models.AsyncSupport

	// Failure injection
	ConnectError    error
	StartError      error
	CheckError      error
	DisconnectError error
	SaveError       error
	StartPolls      int              // session checks before started, negative never starts
	ResultPolls     int              // completion checks before a result completes
	Failures        map[string]error // argument -> error raised when issuing
	FetchFailures   map[string]error // argument -> error raised when fetching
	ListError       error

	mu          sync.Mutex
	symbols     map[string]string
	workspaces  map[string]map[string]string
	keepAlives  int
	disconnects int
	connections int
}

func NewServer(name string) *Server {
	return &Server{
		Name:     name,
		Profiles: []string{models.DefaultProfile},
		Async: models.AsyncSupport{
			Aggregate:      true,
			AssignTable:    true,
			AssignResource: true,
			AssignExpr:     true,
		},
	}
}

func (s *Server) authenticate(info models.LoginInfo) error {
	if len(s.Users) == 0 && len(s.Tokens) == 0 {
		return nil
	}
	if info.UsesToken() && slices.Contains(s.Tokens, info.Token) {
		return nil
	}
	if password, ok := s.Users[info.User]; ok && len(info.User) > 0 && password == info.Password {
		return nil
	}
	return &models.DSError{Message: "authentication failed", Status: 401, Detail: info.Name}
}

func (s *Server) Symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.symbols))
}

func (s *Server) Symbol(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.symbols[name]
	return value, ok
}

func (s *Server) Workspaces() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.workspaces))
}

func (s *Server) KeepAlives() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keepAlives
}

func (s *Server) Disconnects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnects
}

func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connections
}

func (s *Server) setSymbol(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.symbols == nil {
		s.symbols = make(map[string]string)
	}
	s.symbols[name] = value
}

func (s *Server) removeSymbol(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.symbols, name)
}

// clearSymbols drops the R session content, as when the session ends.
func (s *Server) clearSymbols() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.symbols)
}

func (s *Server) saveWorkspace(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspaces == nil {
		s.workspaces = make(map[string]map[string]string)
	}
	s.workspaces[name] = maps.Clone(s.symbols)
}

func (s *Server) restoreWorkspace(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	image, ok := s.workspaces[name]
	if !ok {
		return false
	}
	if s.symbols == nil {
		s.symbols = make(map[string]string)
	}
	// restored symbols override existing ones with the same name
	maps.Copy(s.symbols, image)
	return true
}

func (s *Server) removeWorkspace(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, name)
}
