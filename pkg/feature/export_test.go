package feature

var BuildListQuery = buildListQuery
