package manifest

const launchScriptTemplate = `#!/bin/bash
# {{.DisplayName}} launch script
SCRIPT_DIR="$(cd "$(dirname "${BASH_SOURCE[0]}")" && pwd)"
exec "$SCRIPT_DIR/{{.Binary}}" "$@"
`

const wrapperScriptTemplate = `#!/bin/bash
# {{.ProductName}} wrapper script
exec /usr/share/{{.PackageName}}/{{.Binary}} "$@"
`

const desktopEntryTemplate = `[Desktop Entry]
Version=1.0
Type=Application
Name={{.Name}}
Comment={{.Name}} - Privacy-focused web browser
Exec={{.Exec}}
Icon={{.Icon}}
Terminal=false
Categories=Network;WebBrowser;
MimeType={{.MimeTypes}}
StartupNotify=true
StartupWMClass={{.StartupWMClass}}
`

const readmeTemplate = `{{.DisplayName}} {{.Version}}
==============================

Installation:
1. Extract this archive to your preferred location
2. Run './{{.Launcher}}' to start the browser
3. Optionally, install the desktop file for menu integration

For desktop integration:
  cp {{.Launcher}}.desktop ~/.local/share/applications/

System Requirements:
- Linux x86_64 or ARM64
- GTK 3.0+
- X11 or Wayland display server

Built on: {{.BaseVersion}}
Architecture: {{.Architecture}}
`

// cacheRefreshScript is shared by postinst and postrm.
const cacheRefreshScript = `#!/bin/bash
# Update desktop database
if command -v update-desktop-database >/dev/null 2>&1; then
    update-desktop-database -q /usr/share/applications
fi

# Update icon cache
if command -v gtk-update-icon-cache >/dev/null 2>&1; then
    gtk-update-icon-cache -q /usr/share/icons/hicolor
fi
`

const debDescriptionTemplate = `{{.ProductName}} - Privacy-focused web browser
BrowserOS is an open-source agentic browser that runs AI agents locally.
Your privacy-first alternative with AI superpowers.

Features:
 - Privacy first - use your own API keys or run local models
 - AI agents that run on YOUR browser, not in the cloud
 - Compatible with Chrome extensions
 - Based on Chromium {{.BaseVersion}}
`
