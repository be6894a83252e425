package trackkit

// LibName identifies the SDK in log prefixes and user agents.
const LibName = "trackkit"

// Version is the SDK version reported in heartbeats.
const Version = "1.0.0"

// DefaultLogPrefix is used when Config.LogPrefix is empty.
const DefaultLogPrefix = LibName + "__v" + Version
