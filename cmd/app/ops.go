package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

func doLogin(ctx context.Context, cfg cliConfig, email, password string, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "auth.login", map[string]any{
			"email":    email,
			"password": password,
		}, out)
	}
	client := newAPIClient(cfg.Server, "")
	return client.request(ctx, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, out)
}

func doWhoAmI(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "auth.whoami", map[string]any{"token": cfg.Token}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodGet, "/api/auth/whoami", nil, out)
}

func doIncidentsList(ctx context.Context, cfg cliConfig, reportedBy *uint, limit int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "incidents.list", map[string]any{"token": cfg.Token, "reported_by": reportedBy, "limit": limit}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodGet, "/api/incidents?limit="+strconv.Itoa(limit), nil, out)
}

func doIncidentLog(ctx context.Context, cfg cliConfig, title, description, location string, out any) error {
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodPost, "/api/incidents", map[string]any{
		"title":       title,
		"description": description,
		"location":    location,
	}, out)
}

func doDonationsList(ctx context.Context, cfg cliConfig, limit int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "donations.list", map[string]any{"token": cfg.Token, "limit": limit}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodGet, "/api/donations?limit="+strconv.Itoa(limit), nil, out)
}

func doDonationLog(ctx context.Context, cfg cliConfig, payload map[string]any, out any) error {
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodPost, "/api/donations", payload, out)
}

func doDonationSummary(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "donations.summary", map[string]any{"token": cfg.Token}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodGet, "/api/donations/summary", nil, out)
}

func doVolunteersList(ctx context.Context, cfg cliConfig, limit int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "volunteers.list", map[string]any{"token": cfg.Token, "limit": limit}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodGet, "/api/volunteers?limit="+strconv.Itoa(limit), nil, out)
}

func doVolunteerEnroll(ctx context.Context, cfg cliConfig, skills, availability string, out any) error {
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodPost, "/api/volunteers", map[string]any{
		"skills":       skills,
		"availability": availability,
	}, out)
}

func doTasksList(ctx context.Context, cfg cliConfig, status string, limit int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "tasks.list", map[string]any{"token": cfg.Token, "status": status, "limit": limit}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	path := "/api/volunteer-tasks?limit=" + strconv.Itoa(limit)
	if status != "" {
		path += "&status=" + url.QueryEscape(status)
	}
	return client.request(ctx, http.MethodGet, path, nil, out)
}

func doTaskCreate(ctx context.Context, cfg cliConfig, name, status string, out any) error {
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodPost, "/api/volunteer-tasks", map[string]any{
		"task_name": name,
		"status":    status,
	}, out)
}

func doTaskUpdateStatus(ctx context.Context, cfg cliConfig, taskID uint, status string, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "tasks.update-status", map[string]any{"token": cfg.Token, "task_id": taskID, "status": status}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodPost, "/api/volunteer-tasks/status", map[string]any{"task_id": taskID, "status": status}, out)
}

func doUsersList(ctx context.Context, cfg cliConfig, q string, limit int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "users.list", map[string]any{"token": cfg.Token, "q": q, "limit": limit}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	path := "/api/users?limit=" + strconv.Itoa(limit)
	if q != "" {
		path += "&q=" + url.QueryEscape(q)
	}
	return client.request(ctx, http.MethodGet, path, nil, out)
}

func doAuditList(ctx context.Context, cfg cliConfig, limit int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "audit.list", map[string]any{"token": cfg.Token, "limit": limit}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodGet, "/api/audit/logs?limit="+strconv.Itoa(limit), nil, out)
}

func uintToString(v uint) string {
	return fmt.Sprintf("%d", v)
}
