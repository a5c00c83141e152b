package postgres

const listCatalogEventsSQL = `
SELECT id, name, category, multi_city, start_date, end_date,
       COALESCE(ticket_url, ''), COALESCE(currency, ''),
       demand_multiplier, advance_booking_days,
       base_budget, base_mid, base_luxury,
       ticket_budget, ticket_mid, ticket_luxury
FROM catalog_events
ORDER BY start_date, name
`

const listCatalogCitiesSQL = `
SELECT event_id, city_id, name, country,
       COALESCE(iata_code, ''), COALESCE(timezone, ''),
       latitude, longitude
FROM catalog_cities
ORDER BY event_id, position, city_id
`

const listCatalogVenuesSQL = `
SELECT event_id, venue_id, name, city_id, capacity, COALESCE(address, '')
FROM catalog_venues
ORDER BY event_id, position, venue_id
`

const listCatalogSessionsSQL = `
SELECT event_id, session_id, venue_id, city_id, session_date,
       COALESCE(start_time, ''), COALESCE(round, ''), COALESCE(description, '')
FROM catalog_sessions
ORDER BY event_id, session_date, start_time, session_id
`
