package discovery

import (
	"fmt"
	"math/rand"

	"github.com/hashicorp/consul/api"
)

// NewConsulClient 创建Consul客户端
func NewConsulClient(host string, port int) (*api.Client, error) {
	cfg := api.DefaultConfig()
	cfg.Address = fmt.Sprintf("%s:%d", host, port)
	return api.NewClient(cfg)
}

// ResolveBaseURL 从 Consul 健康实例中解析远端 API 的根地址。
// 多实例时随机挑选一个（客户端侧最简单的负载均衡）。
func ResolveBaseURL(client *api.Client, service string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("consul client is nil")
	}
	if service == "" {
		return "", fmt.Errorf("service name is empty")
	}

	entries, _, err := client.Health().Service(service, "", true, nil)
	if err != nil {
		return "", fmt.Errorf("failed to query consul service %s: %w", service, err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no healthy instance for service %s", service)
	}

	e := entries[rand.Intn(len(entries))]
	addr := e.Service.Address
	if addr == "" {
		addr = e.Node.Address
	}

	scheme := "http"
	if e.Service.Meta["scheme"] == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, addr, e.Service.Port), nil
}
