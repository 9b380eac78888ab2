package domain

// KeyPrefix namespaces every key petmatch writes to a shared key-value store.
const KeyPrefix = "petmatch:"
