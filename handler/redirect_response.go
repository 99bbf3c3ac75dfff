package handler

import "net/http"

type redirectResponse struct {
	url    string
	status int
}

func (rr redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, rr.url, rr.status)
	return nil
}

// Redirect responds with 303 See Other so that a POST is followed by a GET.
func Redirect(url string) Response {
	return redirectResponse{url: url, status: http.StatusSeeOther}
}

func RedirectWithCode(url string, code int) Response {
	return redirectResponse{url: url, status: code}
}
