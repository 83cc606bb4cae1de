package v1

import (
	"context"
	"net"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationShortenerShorten  = "/shortener.v1.Shortener/Shorten"
	OperationShortenerGetStats = "/shortener.v1.Shortener/GetStats"
	OperationShortenerRedirect = "/shortener.v1.Shortener/Redirect"
)

type ShortenerHTTPServer interface {
	// Shorten creates a short link.
	Shorten(context.Context, *ShortenRequest) (*ShortenReply, error)
	// GetStats returns link details and click analytics.
	GetStats(context.Context, *GetStatsRequest) (*GetStatsReply, error)
	// Redirect resolves a short code and records the visit.
	Redirect(context.Context, *RedirectRequest) (*RedirectReply, error)
}

func RegisterShortenerHTTPServer(s *http.Server, srv ShortenerHTTPServer) {
	r := s.Route("/")
	r.POST("/shorturls", _Shortener_Shorten0_HTTP_Handler(srv))
	r.GET("/shorturls/{code}", _Shortener_GetStats0_HTTP_Handler(srv))
	r.GET("/{code}", _Shortener_Redirect0_HTTP_Handler(srv))
}

func _Shortener_Shorten0_HTTP_Handler(srv ShortenerHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ShortenRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationShortenerShorten)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Shorten(ctx, req.(*ShortenRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ShortenReply)
		return ctx.Result(200, reply)
	}
}

func _Shortener_GetStats0_HTTP_Handler(srv ShortenerHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		in := GetStatsRequest{Code: ctx.Vars().Get("code")}
		http.SetOperation(ctx, OperationShortenerGetStats)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetStats(ctx, req.(*GetStatsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*GetStatsReply)
		return ctx.Result(200, reply)
	}
}

func _Shortener_Redirect0_HTTP_Handler(srv ShortenerHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		req := ctx.Request()
		in := RedirectRequest{
			Code:      ctx.Vars().Get("code"),
			UserAgent: req.UserAgent(),
			Referrer:  referrer(req),
			Ip:        clientIP(req),
		}
		http.SetOperation(ctx, OperationShortenerRedirect)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Redirect(ctx, req.(*RedirectRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*RedirectReply)
		nethttp.Redirect(ctx.Response(), req, reply.Location, nethttp.StatusFound)
		return nil
	}
}

// referrer accepts both the standard misspelling and the dictionary form.
func referrer(r *nethttp.Request) string {
	if v := r.Header.Get("Referer"); v != "" {
		return v
	}
	return r.Header.Get("Referrer")
}

func clientIP(r *nethttp.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
