package shared

// App name
const App = "ilert-feed-sync"

// Version current version
const Version = "v1.0.0"
