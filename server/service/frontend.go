package service

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/mergington/activities/server/webui"
)

// ServeFrontend sends browsers hitting the root path over to the static web
// ui. Anything else that falls through the API routes is a 404.
func ServeFrontend(urlPrefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" && r.Method != "HEAD" {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, urlPrefix+"/static/index.html", http.StatusTemporaryRedirect)
	})
}

// ServeStaticAssets serves the embedded web ui files under path.
func ServeStaticAssets(path string) http.Handler {
	contentTypes := []string{"text/javascript", "text/css"}
	withoutGzip := http.StripPrefix(path, http.FileServer(http.FS(webui.Assets())))

	withOpts, err := gzhttp.NewWrapper(gzhttp.ContentTypes(contentTypes))
	if err != nil { // fall back to serving without gzip if serving with gzip somehow fails
		return withoutGzip
	}

	return withOpts(withoutGzip)
}
