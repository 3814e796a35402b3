package api

// BoardMetadataQuery loads board identity, columns and groups.
const BoardMetadataQuery = `
query ($board_id: [ID!]) {
  boards(ids: $board_id) {
    id
    name
    description
    state
    columns {
      id
      title
      type
    }
    groups {
      id
      title
      color
      position
    }
  }
}
`

// ItemsPageQuery loads one cursor page of a board's items. Subitems share the
// item field set but are requested only one level deep.
const ItemsPageQuery = `
query (
  $board_id: ID!,
  $limit: Int!,
  $cursor: String,
  $include_subitems: Boolean!
) {
  boards(ids: [$board_id]) {
    items_page(limit: $limit, cursor: $cursor) {
      cursor
      items {
        ...ItemFields
        subitems @include(if: $include_subitems) {
          ...ItemFields
        }
      }
    }
  }
}

fragment ItemFields on Item {
  id
  name
  created_at
  updated_at
  group {
    id
    title
    color
    position
  }
  creator {
    id
    name
  }
  column_values {
    id
    text
    type
    value
    column {
      title
    }
  }
}
`
