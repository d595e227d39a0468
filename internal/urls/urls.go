package urls

// Repository is the project home, shown in the TUI header
const Repository = "https://github.com/muurk/qrgen"

// Issues is where export and encoding problems can be reported
const Issues = Repository + "/issues"

// WiFiFormat documents the WIFI:T:...;S:...;P:...;; payload
// understood by Android and iOS camera apps.
const WiFiFormat = "https://github.com/zxing/zxing/wiki/Barcode-Contents#wi-fi-network-config-android-ios-11"
