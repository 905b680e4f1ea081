package server

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"peterpainter/internal/pkg/response"
)

// publicFiles serves files from dir for GET/HEAD, directories only through
// their index.html. Unknown paths get a JSON 404.
func publicFiles(dir string) gin.HandlerFunc {
	root := gin.Dir(dir, false)
	fileServer := http.FileServer(root)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			response.Message(c, http.StatusNotFound, "Not found")
			return
		}
		if !exists(root, path.Clean("/"+c.Request.URL.Path)) {
			response.Message(c, http.StatusNotFound, "Not found")
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}

func exists(root http.FileSystem, name string) bool {
	f, err := root.Open(name)
	if err != nil {
		return false
	}
	st, err := f.Stat()
	f.Close()
	if err != nil {
		return false
	}
	if !st.IsDir() {
		return true
	}

	index, err := root.Open(path.Join(name, "index.html"))
	if err != nil {
		return false
	}
	index.Close()
	return true
}
