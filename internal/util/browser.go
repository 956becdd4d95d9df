package util

import (
	"errors"
	"os/exec"
	"runtime"
)

var errNoBrowser = errors.New("no browser command available")

// startCommand 启动外部命令但不等待结束，测试中可替换
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// browserCommands 按优先级返回各平台打开 URL 的候选命令
func browserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 上比 cmd /c start 稳定
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		cmds := [][]string{{"xdg-open", url}}
		for _, b := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			cmds = append(cmds, []string{b, url})
		}
		return cmds
	}
}

// OpenBrowser 用首选命令打开默认浏览器
func OpenBrowser(url string) error {
	cmd := browserCommands(runtime.GOOS, url)[0]
	return startCommand(cmd[0], cmd[1:]...)
}

// OpenBrowserWithFallback 依次尝试候选命令，返回第一个命令的错误
func OpenBrowserWithFallback(url string) error {
	return openWith(runtime.GOOS, url)
}

func openWith(goos, url string) error {
	var first error
	for _, cmd := range browserCommands(goos, url) {
		err := startCommand(cmd[0], cmd[1:]...)
		if err == nil {
			return nil
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		return errNoBrowser
	}
	return first
}
