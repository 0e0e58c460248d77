package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dzjyyds666/asttab/host"
	"github.com/dzjyyds666/asttab/parse/dump"
	"github.com/dzjyyds666/asttab/pkg"
)

const appName = "asttab"

var envConfig = strings.ToUpper(appName) + "_CONFIG"

var ErrInvalidConfig = errors.New("invalid config")

// Config 配置文件内容, 命令行参数优先
type Config struct {
	Python       string            `yaml:"python"`        // 解释器路径
	Prefix       string            `yaml:"prefix"`        // 构造函数前缀
	Indent       int               `yaml:"indent"`        // ast.dump 缩进
	PrettyIndent int               `yaml:"pretty_indent"` // pretty 输出缩进
	LogLevel     string            `yaml:"log_level"`
	LogFormat    string            `yaml:"log_format"`
	Lenient      bool              `yaml:"lenient"`   // 不按节点表校验构造函数
	Namespace    map[string]string `yaml:"namespace"` // 名称 -> "module:attr"
}

func DefaultConfig() *Config {
	return &Config{
		Python:       host.DefaultInterpreter,
		Prefix:       dump.DefaultPrefix,
		Indent:       4,
		PrettyIndent: 4,
		LogLevel:     "warn",
		LogFormat:    "text",
	}
}

// resolveConfigPath picks the config file.
// Priority: --config > $ASTTAB_CONFIG > $XDG_CONFIG_HOME/asttab/config.yaml > ~/.config/asttab/config.yaml
// explicit reports whether the user named the file, in which case it must exist.
func resolveConfigPath(flagPath string) (path string, explicit bool, err error) {
	if flagPath != "" {
		return flagPath, true, nil
	}
	if v := os.Getenv(envConfig); v != "" {
		return v, true, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName, "config.yaml"), false, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.yaml"), false, nil
}

// LoadConfig reads the config file over the defaults. A missing default
// file is not an error.
func LoadConfig(flagPath string) (*Config, error) {
	cfg := DefaultConfig()

	path, explicit, err := resolveConfigPath(flagPath)
	if err != nil {
		return nil, err
	}
	exist, err := pkg.CheckFileExist(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if !exist {
		if explicit {
			return nil, fmt.Errorf("config %s: %w", path, os.ErrNotExist)
		}
		return cfg, nil
	}

	text, err := pkg.ReadText(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(strings.NewReader(text))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (c *Config) Validate() error {
	var errs []error
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.Python == "" {
		errs = append(errs, errors.New("python must not be empty"))
	}
	if c.PrettyIndent < 1 || c.PrettyIndent > 16 {
		errs = append(errs, fmt.Errorf("pretty_indent must be between 1 and 16, got %d", c.PrettyIndent))
	}
	if c.Prefix != "" && !strings.HasSuffix(c.Prefix, ".") {
		errs = append(errs, fmt.Errorf("prefix must be empty or end with '.', got %q", c.Prefix))
	}
	for name, target := range c.Namespace {
		if !identPattern.MatchString(name) {
			errs = append(errs, fmt.Errorf("namespace name %q is not an identifier", name))
		}
		if module, _, _ := strings.Cut(target, ":"); module == "" {
			errs = append(errs, fmt.Errorf("namespace %s: target %q names no module", name, target))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
