package service

// aliases rewrites an incoming key before any domain routing happens,
// grounded on UniService.abbreviations in the original.
var aliases = map[string]string{
	"cmd":     "command",
	"env":     "environment",
	"envfile": "env_file",
}

// serviceLevelKeys are stored on the Service record itself rather than in
// either engine-facing bucket.
var serviceLevelKeys = set(
	"image", "controlfile", "dockerfile", "events", "fromline",
	"expected_timeout", "required", "optional", "service", "commands", "open",
	"env_file", "volumes",
)

// containerOptionKeys are the fixed, compile-time-known container-create
// domain: the engine's create-container contract minus host_config,
// volumes, volumes_from, mem_limit, memswap_limit, and dns (volumes is the
// service-level pseudo-key; the others live in the host-config domain).
var containerOptionKeys = set(
	"name", "hostname", "domainname", "user", "attach_stdin",
	"attach_stdout", "attach_stderr", "exposed_ports", "tty", "stdin_open",
	"stdin_once", "environment", "command", "entrypoint", "image",
	"labels", "working_dir", "network_disabled", "mac_address",
	"stop_signal", "stop_timeout", "healthcheck", "platform",
)

// hostConfigOptionKeys are the fixed host-config domain.
var hostConfigOptionKeys = set(
	"dns", "dns_search", "extra_hosts", "links", "network_mode",
	"ipc_mode", "pid_mode", "uts_mode", "devices", "port_bindings",
	"privileged", "publish_all_ports", "read_only", "shm_size",
	"volumes_from", "group_add", "cap_add", "cap_drop", "restart_policy",
	"security_opt", "cgroup_parent", "log_config", "sysctls",
	"cpu_shares", "cpu_period", "cpu_quota", "cpuset_cpus",
	"cpuset_mems", "mem_limit", "memswap_limit", "mem_reservation",
	"oom_kill_disable", "oom_score_adj", "pids_limit", "isolation",
	"init", "auto_remove",
)

func set(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

func resolveAlias(key string) string {
	if real, ok := aliases[key]; ok {
		return real
	}
	return key
}

// domain classifies a (post-alias) key into one of three buckets.
type domain int

const (
	domainServiceLevel domain = iota
	domainContainer
	domainHostConfig
	domainVolumesPseudo
	domainUnknown
)

func classify(key string) domain {
	switch {
	case key == "volumes":
		return domainVolumesPseudo
	case has(serviceLevelKeys, key):
		return domainServiceLevel
	case has(containerOptionKeys, key):
		return domainContainer
	case has(hostConfigOptionKeys, key):
		return domainHostConfig
	default:
		return domainUnknown
	}
}

func has(m map[string]struct{}, key string) bool {
	_, ok := m[key]
	return ok
}
