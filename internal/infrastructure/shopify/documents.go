package shopify

// productBySKUQuery fetches at most one product and its variants for a search expression
const productBySKUQuery = `query productBySku($query: String!) {
  products(first: 1, query: $query) {
    edges {
      node {
        id
        title
        handle
        status
        variants(first: 100) {
          edges {
            node {
              id
              title
              sku
              inventoryItem {
                id
                unitCost { amount }
                inventoryLevels(first: 1) {
                  edges {
                    node {
                      id
                      location { id }
                      quantities(names: ["available"]) { name quantity }
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

const inventoryAdjustMutation = `mutation inventoryAdjustQuantities($input: InventoryAdjustQuantitiesInput!) {
  inventoryAdjustQuantities(input: $input) {
    inventoryAdjustmentGroup {
      reason
      changes { name delta }
    }
    userErrors { field message }
  }
}`

const inventoryItemUpdateMutation = `mutation inventoryItemUpdate($id: ID!, $input: InventoryItemInput!) {
  inventoryItemUpdate(id: $id, input: $input) {
    inventoryItem {
      id
      unitCost { amount }
    }
    userErrors { field message }
  }
}`

const productSetMutation = `mutation productSet($input: ProductSetInput!, $synchronous: Boolean!) {
  productSet(synchronous: $synchronous, input: $input) {
    product { id handle status }
    userErrors { field message }
  }
}`
