package internal

// Version is the current release of hyphipa.
const Version = "0.4.0"
