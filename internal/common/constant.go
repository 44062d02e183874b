package common

// AuthorizationHeader is the HTTP header carrying the bearer credential.
const AuthorizationHeader = "Authorization"

// BearerScheme is the expected Authorization scheme prefix.
const BearerScheme = "Bearer"

// RootFolder is the well-known parent id denoting the top-level namespace.
const RootFolder = "root"
